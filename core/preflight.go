package core

// This file contains the Preflight organism: the startup check suite that
// runs before the server binds. It prints one line per check with a colored
// status indicator, in the same shape as `--validate` output.

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// CheckStatus represents the status of a preflight check.
type CheckStatus int

const (
	CheckPending CheckStatus = iota
	CheckRunning
	CheckPassed
	CheckFailed
	CheckWarning
	CheckSkipped
)

// String returns the string representation of a check status.
func (s CheckStatus) String() string {
	switch s {
	case CheckPending:
		return "pending"
	case CheckRunning:
		return "running"
	case CheckPassed:
		return "passed"
	case CheckFailed:
		return "failed"
	case CheckWarning:
		return "warning"
	case CheckSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// CheckResult represents a single completed preflight check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	Err     error
	Latency time.Duration
}

// CheckFunc runs one preflight check and reports its outcome.
type CheckFunc func() (CheckStatus, string, error)

// PreflightResult represents the complete result of a preflight run.
type PreflightResult struct {
	Checks       []CheckResult
	TotalChecks  int
	PassedChecks int
	FailedChecks int
	Warnings     int
	Duration     time.Duration
	Success      bool
}

// Preflight orchestrates the startup checks: env file presence, configuration
// load, data directory writability, plus any host-registered checks (presets
// file, database). This is an organism composing the config and data
// directory atoms.
type Preflight struct {
	output       io.Writer
	envPath      string
	showProgress bool
	failFast     bool
	extras       []namedCheck

	// cfg is populated by the configuration check so later built-in checks
	// can use it.
	cfg *Config
}

type namedCheck struct {
	name string
	fn   CheckFunc
}

// NewPreflight creates a Preflight with default settings.
func NewPreflight() *Preflight {
	return &Preflight{
		output:       os.Stdout,
		envPath:      ".env",
		showProgress: true,
	}
}

// WithOutput sets the output writer for progress messages.
func (p *Preflight) WithOutput(w io.Writer) *Preflight {
	p.output = w
	return p
}

// WithEnvPath sets a custom path for the .env file.
func (p *Preflight) WithEnvPath(path string) *Preflight {
	p.envPath = path
	return p
}

// WithShowProgress enables or disables progress output.
func (p *Preflight) WithShowProgress(show bool) *Preflight {
	p.showProgress = show
	return p
}

// WithFailFast stops the run on the first failed check if enabled.
func (p *Preflight) WithFailFast(failFast bool) *Preflight {
	p.failFast = failFast
	return p
}

// WithCheck registers an additional check to run after the built-in ones,
// in registration order. The host uses this for checks that need other
// packages (presets parsing, database open).
func (p *Preflight) WithCheck(name string, fn CheckFunc) *Preflight {
	p.extras = append(p.extras, namedCheck{name: name, fn: fn})
	return p
}

// Config returns the configuration loaded during Run, or nil if the
// configuration check has not passed.
func (p *Preflight) Config() *Config {
	return p.cfg
}

// Run executes all checks in sequence with progress output.
func (p *Preflight) Run() PreflightResult {
	startTime := time.Now()
	checks := make([]CheckResult, 0, 3+len(p.extras))

	if p.showProgress {
		p.printHeader("PixLab Startup Checks")
	}

	// Check 1: .env file. Missing is a warning, never a failure; the
	// process environment and defaults are always enough to start.
	check := p.runCheck("Environment File", p.checkEnvFile)
	checks = append(checks, check)

	// Check 2: configuration load and validation.
	check = p.runCheck("Configuration", p.checkConfig)
	checks = append(checks, check)
	if p.failFast && check.Status == CheckFailed {
		return p.buildResult(checks, startTime)
	}

	// Check 3: data directory, only when configuration loaded.
	if p.cfg != nil {
		check = p.runCheck("Data Directory", p.checkDataDir)
	} else {
		check = p.skipCheck("Data Directory", "Skipped due to configuration errors")
	}
	checks = append(checks, check)
	if p.failFast && check.Status == CheckFailed {
		return p.buildResult(checks, startTime)
	}

	// Host-registered checks.
	for _, extra := range p.extras {
		if p.cfg == nil {
			check = p.skipCheck(extra.name, "Skipped due to configuration errors")
		} else {
			check = p.runCheck(extra.name, extra.fn)
		}
		checks = append(checks, check)
		if p.failFast && check.Status == CheckFailed {
			return p.buildResult(checks, startTime)
		}
	}

	result := p.buildResult(checks, startTime)

	if p.showProgress {
		p.printSummary(result)
	}

	return result
}

// checkEnvFile reports whether the .env file exists.
func (p *Preflight) checkEnvFile() (CheckStatus, string, error) {
	info, err := os.Stat(p.envPath)
	if err != nil {
		return CheckWarning, "No .env file, using process environment and defaults", nil
	}
	if info.IsDir() {
		return CheckFailed, "Environment file path is a directory",
			fmt.Errorf("%s is a directory, not a file", p.envPath)
	}
	return CheckPassed, "Environment file found", nil
}

// checkConfig loads and validates the configuration, stashing it for
// later checks.
func (p *Preflight) checkConfig() (CheckStatus, string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return CheckFailed, "Configuration invalid", err
	}
	p.cfg = cfg
	return CheckPassed, fmt.Sprintf("Listening on %s, data in %s", cfg.Addr(), cfg.DataDir), nil
}

// checkDataDir creates the data layout and probes it for writability.
func (p *Preflight) checkDataDir() (CheckStatus, string, error) {
	dir, err := EnsureDataLayout(p.cfg.DataDir)
	if err != nil {
		return CheckFailed, "Data directory not usable", err
	}
	if err := CheckWritable(dir); err != nil {
		return CheckFailed, "Data directory not writable", ErrInvalidDataDir(dir, err.Error())
	}
	return CheckPassed, fmt.Sprintf("%s is writable", dir), nil
}

// runCheck executes a check with timing and progress output.
func (p *Preflight) runCheck(name string, fn CheckFunc) CheckResult {
	check := CheckResult{Name: name, Status: CheckRunning}

	if p.showProgress {
		p.printCheckStart(name)
	}

	startTime := time.Now()
	status, message, err := fn()
	check.Latency = time.Since(startTime)
	check.Status = status
	check.Message = message
	check.Err = err

	if p.showProgress {
		p.printCheck(check)
	}

	return check
}

// skipCheck records a check that did not run.
func (p *Preflight) skipCheck(name, reason string) CheckResult {
	check := CheckResult{Name: name, Status: CheckSkipped, Message: reason}
	if p.showProgress {
		p.printCheck(check)
	}
	return check
}

// buildResult creates a PreflightResult from completed checks.
func (p *Preflight) buildResult(checks []CheckResult, startTime time.Time) PreflightResult {
	result := PreflightResult{
		Checks:      checks,
		TotalChecks: len(checks),
		Duration:    time.Since(startTime),
		Success:     true,
	}

	for _, check := range checks {
		switch check.Status {
		case CheckPassed:
			result.PassedChecks++
		case CheckFailed:
			result.FailedChecks++
			result.Success = false
		case CheckWarning:
			result.Warnings++
		}
	}

	return result
}

// printHeader prints a preflight header.
func (p *Preflight) printHeader(title string) {
	fmt.Fprintln(p.output)
	headerColor := color.New(color.FgCyan, color.Bold)
	headerColor.Fprintf(p.output, "━━━ %s ━━━\n", title)
	fmt.Fprintln(p.output)
}

// printCheckStart prints the check name before execution (for real-time feedback).
func (p *Preflight) printCheckStart(name string) {
	fmt.Fprintf(p.output, "  ◌ %s...", name)
}

// printCheck prints a completed check with status indicator.
func (p *Preflight) printCheck(check CheckResult) {
	var icon string
	var clr *color.Color

	switch check.Status {
	case CheckPassed:
		icon = "✓"
		clr = color.New(color.FgGreen)
	case CheckFailed:
		icon = "✗"
		clr = color.New(color.FgRed)
	case CheckWarning:
		icon = "!"
		clr = color.New(color.FgYellow)
	case CheckSkipped:
		icon = "○"
		clr = color.New(color.FgHiBlack)
	default:
		icon = "?"
		clr = color.New(color.FgWhite)
	}

	// Clear the "running" line and print result
	fmt.Fprintf(p.output, "\r")
	clr.Fprintf(p.output, "  %s %s", icon, check.Name)

	if check.Message != "" {
		dim := color.New(color.FgHiBlack)
		dim.Fprintf(p.output, " - %s", check.Message)
	}

	fmt.Fprintln(p.output)

	if check.Status == CheckFailed && check.Err != nil {
		errColor := color.New(color.FgRed)
		errColor.Fprintf(p.output, "    └─ %s\n", check.Err.Error())
	}
}

// printSummary prints the preflight summary.
func (p *Preflight) printSummary(result PreflightResult) {
	fmt.Fprintln(p.output)

	if result.Success {
		successColor := color.New(color.FgGreen, color.Bold)
		successColor.Fprintf(p.output, "━━━ Checks Passed ")
		color.New(color.FgHiBlack).Fprintf(p.output, "(%d/%d in %v)",
			result.PassedChecks, result.TotalChecks, result.Duration.Round(time.Millisecond))
		successColor.Fprintln(p.output, " ━━━")
	} else {
		failColor := color.New(color.FgRed, color.Bold)
		failColor.Fprintf(p.output, "━━━ Checks Failed ")
		color.New(color.FgHiBlack).Fprintf(p.output, "(%d passed, %d failed)",
			result.PassedChecks, result.FailedChecks)
		failColor.Fprintln(p.output, " ━━━")
	}

	fmt.Fprintln(p.output)
}

// GetErrors returns all errors from failed checks.
func (r PreflightResult) GetErrors() []error {
	errors := make([]error, 0)
	for _, check := range r.Checks {
		if check.Err != nil {
			errors = append(errors, check.Err)
		}
	}
	return errors
}

// GetFirstError returns the first error from failed checks, or nil if all passed.
func (r PreflightResult) GetFirstError() error {
	for _, check := range r.Checks {
		if check.Err != nil {
			return check.Err
		}
	}
	return nil
}

// Summary returns a human-readable summary string.
func (r PreflightResult) Summary() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Preflight %s: ", map[bool]string{true: "passed", false: "failed"}[r.Success]))
	sb.WriteString(fmt.Sprintf("%d/%d checks passed", r.PassedChecks, r.TotalChecks))
	if r.FailedChecks > 0 {
		sb.WriteString(fmt.Sprintf(", %d failed", r.FailedChecks))
	}
	if r.Warnings > 0 {
		sb.WriteString(fmt.Sprintf(", %d warnings", r.Warnings))
	}
	sb.WriteString(fmt.Sprintf(" (took %v)", r.Duration.Round(time.Millisecond)))
	return sb.String()
}
