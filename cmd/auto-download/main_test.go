//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/auto-download/internal/config"
)

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), args, &stdout, &stderr, false)

	return code, stdout.String(), stderr.String()
}

func TestRun_Help(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code, stdout, _ := runCLI("--help")
	g.Expect(code).To(Equal(exitOK))
	g.Expect(stdout).To(ContainSubstring("Usage: auto-download"))

	code, stdout, _ = runCLI("--version")
	g.Expect(code).To(Equal(exitOK))
	g.Expect(stdout).To(ContainSubstring("auto-download 1.0.0"))
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code, _, stderr := runCLI()
	g.Expect(code).To(Equal(exitUsage))
	g.Expect(stderr).To(ContainSubstring("no command given"))

	code, _, stderr = runCLI("download", "/media/card", "--mode", "sideways")
	g.Expect(code).To(Equal(exitUsage))
	g.Expect(stderr).To(ContainSubstring("Error:"))
}

func TestRun_InitThenDownload(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	configDir := t.TempDir()
	card := t.TempDir()
	library := t.TempDir()

	code, stdout, stderr := runCLI("init", "--config-dir", configDir, "--target-root", library)
	g.Expect(code).To(Equal(exitOK), stderr)
	g.Expect(stdout).To(ContainSubstring("DCIM on the drive goes to " + library))

	cfg, err := config.ReadDriveConfig(configDir)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(cfg).To(HaveKeyWithValue("DCIM", config.SourceConfig{Target: config.Target{Root: library}}))

	shot := filepath.Join(card, "DCIM", "DIR001", "DP0001.jpg")
	g.Expect(os.MkdirAll(filepath.Dir(shot), 0o755)).To(Succeed())
	g.Expect(os.WriteFile(shot, []byte("photo"), 0o600)).To(Succeed())

	mtime := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	g.Expect(os.Chtimes(shot, mtime, mtime)).To(Succeed())

	code, stdout, stderr = runCLI("download", card, "--config-dir", configDir, "--dry-run")
	g.Expect(code).To(Equal(exitOK), stderr)
	g.Expect(stdout).To(Equal("1 files would be copied\n"))

	code, stdout, stderr = runCLI("download", card, "--config-dir", configDir, "--mode", "stream")
	g.Expect(code).To(Equal(exitOK), stderr)
	g.Expect(stdout).To(Equal("1 copied, 0 skipped\n"))
	g.Expect(stderr).To(ContainSubstring("msg=copied"))

	day := mtime.In(time.Local).Format(config.DefaultDateLayout)
	g.Expect(filepath.Join(library, day, "DP0001.jpg")).To(BeARegularFile())

	code, stdout, _ = runCLI("download", card, "--config-dir", configDir)
	g.Expect(code).To(Equal(exitOK))
	g.Expect(stdout).To(Equal("0 copied, 0 skipped\n"))
}

func TestRun_InitRefusesToOverwrite(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	configDir := t.TempDir()

	code, _, _ := runCLI("init", "--config-dir", configDir, "--target-root", "/photos")
	g.Expect(code).To(Equal(exitOK))

	code, _, stderr := runCLI("init", "--config-dir", configDir, "--target-root", "/elsewhere")
	g.Expect(code).To(Equal(exitError))
	g.Expect(stderr).To(ContainSubstring("configuration already exists"))

	code, _, _ = runCLI("init", "--config-dir", configDir, "--target-root", "/elsewhere", "--force")
	g.Expect(code).To(Equal(exitOK))
}

func TestRun_InitNeedsTargetRootWithoutTerminal(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code, _, stderr := runCLI("init", "--config-dir", t.TempDir())
	g.Expect(code).To(Equal(exitError))
	g.Expect(stderr).To(ContainSubstring("--target-root is required"))
}

func TestRun_DownloadWithoutConfig(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	code, _, stderr := runCLI("download", t.TempDir(), "--config-dir", t.TempDir())
	g.Expect(code).To(Equal(exitError))
	g.Expect(stderr).To(ContainSubstring("configuration not found"))
	g.Expect(stderr).To(ContainSubstring("Suggestions:"))
	g.Expect(stderr).To(ContainSubstring("auto-download init"))
}

func TestValidateTargetRoot(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(validateTargetRoot("")).To(MatchError(config.ErrInvalidConfig))
	g.Expect(validateTargetRoot("/photos")).To(Succeed())
	g.Expect(validateTargetRoot("sftp://joe@nas.local/photos")).To(Succeed())
	g.Expect(validateTargetRoot("sftp://")).ToNot(Succeed())
}
