package roadrunner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hhkbp2/testify/require"
)

func parseTestArgs(t *testing.T, args ...string) Properties {
	saved := os.Args
	defer func() {
		os.Args = saved
	}()
	os.Args = append([]string{"roadrunner"}, args...)
	return ParseArgs()
}

func TestParseArgsNamedOptions(t *testing.T) {
	props := parseTestArgs(t,
		"-nodes", "10.0.0.1,10.0.0.2",
		"--phase", "load",
		"-num-docs", "5000",
		"-store", "basic")
	require.Equal(t, "10.0.0.1,10.0.0.2", props.Get(OptNodes))
	require.Equal(t, "load", props.Get(OptPhase))
	require.Equal(t, "5000", props.Get(OptNumDocs))
	require.Equal(t, "basic", props.Get(OptStore))
}

func TestParseArgsProperty(t *testing.T) {
	props := parseTestArgs(t,
		"-p", "document.size=128",
		"-p", "basic.verbose=true")
	require.Equal(t, "128", props.Get(PropertyDocumentSize))
	require.Equal(t, "true", props.Get(ConfigBasicVerbose))
}

func TestParseArgsPropertyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.yaml")
	err := os.WriteFile(path, []byte("num-docs: 7777\nphase: load\n"), 0644)
	require.Nil(t, err)
	// Later arguments override file contents.
	props := parseTestArgs(t, "-P", path, "-phase", "run")
	require.Equal(t, "7777", props.Get(OptNumDocs))
	require.Equal(t, "run", props.Get(OptPhase))
}

func TestRunLoadThenReport(t *testing.T) {
	props := Properties{
		OptPhase:        "load",
		OptNumClients:   "2",
		OptNumThreads:   "2",
		OptNumDocs:      "40",
		OptMaxThinkTime: "0",
		OptLogLevel:     "quiet",
	}
	require.Nil(t, Run(props))
}

func TestRunRejectsBadConfig(t *testing.T) {
	props := Properties{
		OptPhase:    "warmup",
		OptLogLevel: "quiet",
	}
	require.NotNil(t, Run(props))
}

func TestRunRejectsUnknownStore(t *testing.T) {
	props := Properties{
		OptStore:        "teleport",
		OptMaxThinkTime: "0",
		OptLogLevel:     "quiet",
	}
	require.NotNil(t, Run(props))
}
