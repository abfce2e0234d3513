// Package capability decides whether the runtime environment can receive
// push notifications at all.
package capability

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dtroode/pushgate/internal/logger"
	"github.com/dtroode/pushgate/internal/model"
)

// Rule checks one precondition against the environment. It returns ok=false
// with a human-readable reason to mark the environment unsupported. Rules
// are evaluated in order and the first failure short-circuits detection.
type Rule func(ctx context.Context, env model.Environment) (reason string, ok bool)

// Detector inspects the environment through an ordered rule set. Detection
// has no side effects and never fails: every problem is reported through the
// returned CapabilityReport.
type Detector struct {
	env      model.Environment
	notifier model.Notifier
	rules    []Rule
	logger   *logger.Logger
}

func NewDetector(env model.Environment, notifier model.Notifier, rules []Rule, logger *logger.Logger) *Detector {
	return &Detector{
		env:      env,
		notifier: notifier,
		rules:    rules,
		logger:   logger,
	}
}

// Detect recomputes the capability report. Reports are never cached across
// calls because permission can change out-of-band.
func (d *Detector) Detect(ctx context.Context) model.CapabilityReport {
	info := d.env.Platform()
	report := model.CapabilityReport{
		Permission:         d.notifier.Permission(),
		PlatformName:       info.Name,
		PlatformVersion:    info.Version,
		SecureContext:      d.env.SecureContext(),
		HasWorkerAPI:       d.env.HasWorkerAPI(),
		HasPushAPI:         d.env.HasPushAPI(),
		HasNotificationAPI: d.env.HasNotificationAPI(),
	}

	for _, rule := range d.rules {
		if reason, ok := rule(ctx, d.env); !ok {
			d.logger.Debug("capability check failed", "reason", reason)
			report.Reason = reason
			return report
		}
	}

	report.Supported = true
	return report
}

// DefaultRules returns the standard rule order: worker API, push API,
// notification API, secure context, minimum platform versions, private
// browsing probe.
func DefaultRules(minimumVersions map[string]int) []Rule {
	return []Rule{
		WorkerAPIRule(),
		PushAPIRule(),
		NotificationAPIRule(),
		SecureContextRule(),
		MinimumVersionRule(minimumVersions),
		PrivateModeRule(),
	}
}

// DefaultMinimumVersions lists mobile browsers known to ship broken or
// absent push support below the given major version.
func DefaultMinimumVersions() map[string]int {
	return map[string]int{
		"chrome-android":  42,
		"firefox-android": 48,
		"samsung":         4,
		"safari-ios":      16,
	}
}

func WorkerAPIRule() Rule {
	return func(ctx context.Context, env model.Environment) (string, bool) {
		if !env.HasWorkerAPI() {
			return "this browser does not support background workers", false
		}
		return "", true
	}
}

func PushAPIRule() Rule {
	return func(ctx context.Context, env model.Environment) (string, bool) {
		if !env.HasPushAPI() {
			return "this browser does not support push messaging", false
		}
		return "", true
	}
}

func NotificationAPIRule() Rule {
	return func(ctx context.Context, env model.Environment) (string, bool) {
		if !env.HasNotificationAPI() {
			return "this browser does not support notifications", false
		}
		return "", true
	}
}

// SecureContextRule rejects plain-HTTP origins. Local loopback is exempt so
// development setups keep working.
func SecureContextRule() Rule {
	return func(ctx context.Context, env model.Environment) (string, bool) {
		if env.SecureContext() || env.Loopback() {
			return "", true
		}
		return "push notifications require a secure (HTTPS) connection", false
	}
}

// MinimumVersionRule rejects platforms below a known minimum major version.
// Platforms absent from the table pass, so new rules are purely additive.
func MinimumVersionRule(minimums map[string]int) Rule {
	return func(ctx context.Context, env model.Environment) (string, bool) {
		info := env.Platform()
		minimum, listed := minimums[strings.ToLower(info.Name)]
		if !listed {
			return "", true
		}
		major, err := majorVersion(info.Version)
		if err != nil {
			// An unparseable version is not evidence of an old browser.
			return "", true
		}
		if major < minimum {
			return fmt.Sprintf("%s %s is too old for push notifications, version %d or newer is required",
				info.Name, info.Version, minimum), false
		}
		return "", true
	}
}

// PrivateModeRule runs the best-effort private-browsing probe. A probe error
// is treated as "not private": blocking a legitimate user is worse than
// letting a private session fail later.
func PrivateModeRule() Rule {
	return func(ctx context.Context, env model.Environment) (string, bool) {
		private, err := env.ProbeStorage(ctx)
		if err != nil {
			return "", true
		}
		if private {
			return "push notifications are not available in private browsing mode", false
		}
		return "", true
	}
}

func majorVersion(version string) (int, error) {
	head, _, _ := strings.Cut(version, ".")
	return strconv.Atoi(strings.TrimSpace(head))
}
