// Package remediation provides static per-host-OS guidance for permission
// failures recorded during a collection run. It is a deliberately simplified
// adaptation of a live-health-check auto-fixing engine: this tracker has no
// health checks to diagnose, only a fixed bulleted guidance string to print
// once at end of run.
package remediation

import "strings"

// Action describes one remediation step a user can take.
type Action struct {
	Title string
	Steps []string
}

// rules is keyed by GOOS ("windows", "linux", "darwin"); anything else
// falls back to the generic entry.
var rules = map[string]Action{
	"windows": {
		Title: "Run the collector as Administrator",
		Steps: []string{
			"Re-launch the collector from an elevated (Administrator) command prompt or PowerShell session.",
			"Confirm the running user holds the SeBackupPrivilege privilege (Local Security Policy > User Rights Assignment).",
			"For files under System Volume Information or locked registry hives, elevation is required even if the account is in Administrators.",
		},
	},
	"linux": {
		Title: "Re-run with sudo or grant group access",
		Steps: []string{
			"Re-run the collector with sudo, or grant the invoking user membership in the owning group of the source files.",
			"For block-device or /proc-restricted artifacts, the invoking user must have CAP_DAC_READ_SEARCH or be root.",
			"Check SELinux/AppArmor denials in the audit log if sudo still fails.",
		},
	},
	"darwin": {
		Title: "Grant Full Disk Access",
		Steps: []string{
			"Add the collector binary to System Settings > Privacy & Security > Full Disk Access.",
			"Restart the collector after granting access; macOS only applies the grant to new process launches.",
			"Some system artifacts additionally require SIP (System Integrity Protection) to be satisfied, not merely bypassed.",
		},
	},
}

var generic = Action{
	Title: "Run with elevated privileges",
	Steps: []string{
		"Re-run the collector with an account that has read access to the denied source paths.",
	},
}

// For returns the guidance action for the given host OS (as reported by
// runtime.GOOS), falling back to generic guidance for unrecognized values.
func For(hostOS string) Action {
	if action, ok := rules[hostOS]; ok {
		return action
	}
	return generic
}

// Summary renders a single end-of-run bulleted guidance block for the given
// host OS and the list of artifact names that failed with an authorization
// error: a bulleted list of artifact names followed by platform-specific
// guidance.
func Summary(hostOS string, deniedArtifacts []string) string {
	if len(deniedArtifacts) == 0 {
		return ""
	}
	action := For(hostOS)

	var sb strings.Builder
	sb.WriteString("Permission denied for the following artifacts:\n")
	for _, name := range deniedArtifacts {
		sb.WriteString("  - ")
		sb.WriteString(name)
		sb.WriteString("\n")
	}
	sb.WriteString(action.Title)
	sb.WriteString(":\n")
	for _, step := range action.Steps {
		sb.WriteString("  * ")
		sb.WriteString(step)
		sb.WriteString("\n")
	}
	return sb.String()
}
