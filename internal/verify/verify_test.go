package verify_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fidelity/internal/config"
	"fidelity/internal/digest"
	"fidelity/internal/integrity"
	"fidelity/internal/library"
	"fidelity/internal/logging"
	"fidelity/internal/testsupport"
	"fidelity/internal/verify"
)

func newTestVerifier(t *testing.T, cfg *config.Config, opts ...verify.Option) (*verify.Verifier, *library.Store) {
	t.Helper()

	store := testsupport.MustOpenStore(t, cfg)
	registry := integrity.NewRegistry(cfg.Tools)
	opts = append([]verify.Option{
		verify.WithQuiet(true),
		verify.WithOutput(io.Discard),
	}, opts...)
	return verify.New(cfg, store, registry, logging.NewNop(), opts...), store
}

func writeTrack(t *testing.T, cfg *config.Config, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(testsupport.BaseDir(cfg), "music", name)
	testsupport.WriteFile(t, path, content)
	return path
}

func TestAddComputesMissingChecksums(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutIntegrity(), testsupport.WithThreads(2))
	v, store := newTestVerifier(t, cfg)

	pathA := writeTrack(t, cfg, "a.mp3", []byte("first"))
	pathB := writeTrack(t, cfg, "b.flac", []byte("second"))
	fileA := testsupport.InsertFile(t, store, pathA, library.FormatMP3, "")
	fileB := testsupport.InsertFile(t, store, pathB, library.FormatFLAC, "")
	known := testsupport.InsertFile(t, store, writeTrack(t, cfg, "c.ogg", []byte("third")), library.FormatOGG, "feedface")

	report, err := v.Add(context.Background(), nil)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if report.Total != 2 || report.OK != 2 {
		t.Fatalf("report = %d total, %d ok, want 2/2", report.Total, report.OK)
	}

	for _, file := range []*library.MediaFile{fileA, fileB} {
		got, err := store.GetByID(context.Background(), file.ID)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		want, _, err := digest.Compute(file.Path)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if got.Checksum != want {
			t.Errorf("checksum for %s = %q, want %q", file.Path, got.Checksum, want)
		}
	}

	got, err := store.GetByID(context.Background(), known.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Checksum != "feedface" {
		t.Errorf("existing checksum was overwritten: %q", got.Checksum)
	}
}

func TestCheckReportsOnlyTheCorruptedFile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutIntegrity(), testsupport.WithThreads(2))
	v, store := newTestVerifier(t, cfg)

	var paths []string
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		paths = append(paths, writeTrack(t, cfg, name, []byte("content of "+name)))
	}
	for _, path := range paths {
		testsupport.InsertFile(t, store, path, library.FormatMP3, "")
	}
	if _, err := v.Add(context.Background(), nil); err != nil {
		t.Fatalf("Add: %v", err)
	}

	testsupport.WriteFile(t, paths[1], []byte("silently rewritten"))

	report, err := v.Check(context.Background(), nil, verify.CheckMode{Checksums: true})
	var failures *verify.FailuresError
	if !errors.As(err, &failures) {
		t.Fatalf("Check error = %v, want *FailuresError", err)
	}
	if failures.Count != 1 {
		t.Fatalf("failure count = %d, want 1", failures.Count)
	}
	if report.ChecksumFailures != 1 || report.OK != 2 || report.IOErrors != 0 {
		t.Fatalf("report = %+v, want 1 checksum failure and 2 ok", report)
	}
	if report.Failed[0].File.Path != paths[1] {
		t.Errorf("failed path = %s, want %s", report.Failed[0].File.Path, paths[1])
	}
}

func TestCheckMissingFileIsIOError(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutIntegrity())
	v, store := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "gone.mp3", []byte("soon deleted"))
	testsupport.InsertFile(t, store, path, library.FormatMP3, "")
	if _, err := v.Add(context.Background(), nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	report, err := v.Check(context.Background(), nil, verify.CheckMode{Checksums: true})
	var failures *verify.FailuresError
	if !errors.As(err, &failures) {
		t.Fatalf("Check error = %v, want *FailuresError", err)
	}
	if report.IOErrors != 1 || report.ChecksumFailures != 0 {
		t.Fatalf("report = %+v, want one io error", report)
	}
}

func TestCheckIntegrityWarningIsNotAFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	binDir := filepath.Join(t.TempDir(), "bin")
	cfg.Tools.MP3Val = testsupport.StubTool(t, binDir, "mp3val",
		`echo 'WARNING: "clip.mp3" (offset 0x24): garbage at the end'`+"\n")
	v, store := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "clip.mp3", []byte("mp3 bytes"))
	checksum, _, err := digest.Compute(path)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	testsupport.InsertFile(t, store, path, library.FormatMP3, checksum)

	report, err := v.Check(context.Background(), nil, verify.CheckMode{Checksums: true, Integrity: true})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if report.IntegrityWarnings != 1 {
		t.Fatalf("warnings = %d, want 1", report.IntegrityWarnings)
	}
	if got := report.Warnings[0].Reason; got != "garbage at the end" {
		t.Errorf("warning reason = %q", got)
	}
}

func TestCheckIntegrityOnlyWithoutCheckers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	missing := filepath.Join(t.TempDir(), "missing")
	cfg.Tools.MP3Val = filepath.Join(missing, "mp3val")
	cfg.Tools.Flac = filepath.Join(missing, "flac")
	cfg.Tools.OggzValidate = filepath.Join(missing, "oggz-validate")
	v, _ := newTestVerifier(t, cfg)

	_, err := v.Check(context.Background(), nil, verify.CheckMode{Integrity: true})
	if !errors.Is(err, verify.ErrNoCheckers) {
		t.Fatalf("Check error = %v, want ErrNoCheckers", err)
	}
}

func TestUpdateOverwritesStoredChecksums(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutIntegrity())
	v, store := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "stale.mp3", []byte("new content"))
	file := testsupport.InsertFile(t, store, path, library.FormatMP3, strings.Repeat("0", 64))

	report, err := v.Update(context.Background(), nil, true)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if report.OK != 1 {
		t.Fatalf("report.OK = %d, want 1", report.OK)
	}

	got, err := store.GetByID(context.Background(), file.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	want, _, _ := digest.Compute(path)
	if got.Checksum != want {
		t.Errorf("checksum = %q, want %q", got.Checksum, want)
	}
}

func TestUpdateWithoutQueryRequiresConfirmation(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutIntegrity())
	declined := false
	v, store := newTestVerifier(t, cfg, verify.WithPrompter(func(string) bool {
		declined = true
		return false
	}))

	path := writeTrack(t, cfg, "keep.mp3", []byte("content"))
	file := testsupport.InsertFile(t, store, path, library.FormatMP3, strings.Repeat("a", 64))

	report, err := v.Update(context.Background(), nil, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if report != nil {
		t.Fatalf("report = %+v, want nil after declined prompt", report)
	}
	if !declined {
		t.Fatal("prompt was never shown")
	}

	got, _ := store.GetByID(context.Background(), file.ID)
	if got.Checksum != strings.Repeat("a", 64) {
		t.Errorf("checksum changed after declined update: %q", got.Checksum)
	}
}

func TestExportWritesChecksumLines(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutIntegrity())
	v, store := newTestVerifier(t, cfg)

	pathA := writeTrack(t, cfg, "a.mp3", []byte("alpha"))
	pathB := writeTrack(t, cfg, "b.mp3", []byte("beta"))
	sumA, _, _ := digest.Compute(pathA)
	sumB, _, _ := digest.Compute(pathB)
	testsupport.InsertFile(t, store, pathA, library.FormatMP3, sumA)
	testsupport.InsertFile(t, store, pathB, library.FormatMP3, sumB)
	testsupport.InsertFile(t, store, writeTrack(t, cfg, "new.mp3", []byte("x")), library.FormatMP3, "")

	var buf bytes.Buffer
	count, err := v.Export(context.Background(), &buf, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	want := fmt.Sprintf("%s *%s\n%s *%s\n", sumA, pathA, sumB, pathB)
	if buf.String() != want {
		t.Errorf("export output:\n%swant:\n%s", buf.String(), want)
	}
}

// fixStub behaves like a repair tool: validation reports damage until the fix
// flag rewrites the file, and every fix invocation is appended to the marker.
func fixStub(marker string) string {
	return fmt.Sprintf(`case "$1" in
-f)
  cp "$2" "$2.bak"
  printf repaired > "$2"
  echo fix >> %q
  ;;
*)
  echo 'WARNING: "clip.mp3" (offset 0x24): garbage at the end'
  ;;
esac
`, marker)
}

func fixInvocations(t *testing.T, marker string) int {
	t.Helper()

	data, err := os.ReadFile(marker)
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	return strings.Count(string(data), "fix")
}

func TestFixRepairsDamagedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	binDir := filepath.Join(t.TempDir(), "bin")
	marker := filepath.Join(binDir, "invocations")
	cfg.Tools.MP3Val = testsupport.StubTool(t, binDir, "mp3val", fixStub(marker))
	v, store := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "clip.mp3", []byte("damaged bytes"))
	file := testsupport.InsertFile(t, store, path, library.FormatMP3, "")
	if _, err := digest.Set(context.Background(), store, file); err != nil {
		t.Fatalf("Set: %v", err)
	}

	report, err := v.Fix(context.Background(), nil, verify.FixOptions{Force: true})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if report.OK != 1 {
		t.Fatalf("report.OK = %d, want 1", report.OK)
	}
	if got := fixInvocations(t, marker); got != 1 {
		t.Fatalf("fix invocations = %d, want 1", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixed file: %v", err)
	}
	if string(data) != "repaired" {
		t.Errorf("file content = %q, want %q", data, "repaired")
	}
	if _, err := os.Stat(path + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("backup still present: %v", err)
	}

	got, err := store.GetByID(context.Background(), file.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	want, _, _ := digest.Compute(path)
	if got.Checksum != want {
		t.Errorf("checksum not refreshed: %q, want %q", got.Checksum, want)
	}
}

func TestFixKeepsBackupWhenRequested(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	binDir := filepath.Join(t.TempDir(), "bin")
	marker := filepath.Join(binDir, "invocations")
	cfg.Tools.MP3Val = testsupport.StubTool(t, binDir, "mp3val", fixStub(marker))
	v, store := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "clip.mp3", []byte("damaged bytes"))
	testsupport.InsertFile(t, store, path, library.FormatMP3, "")

	if _, err := v.Fix(context.Background(), nil, verify.FixOptions{Force: true, Backup: true}); err != nil {
		t.Fatalf("Fix: %v", err)
	}
	data, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(data) != "damaged bytes" {
		t.Errorf("backup content = %q", data)
	}
}

func TestFixHealthyFilesSpawnsNoRepair(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	binDir := filepath.Join(t.TempDir(), "bin")
	marker := filepath.Join(binDir, "invocations")
	cfg.Tools.MP3Val = testsupport.StubTool(t, binDir, "mp3val", fmt.Sprintf(
		"if [ \"$1\" = -f ]; then echo fix >> %q; fi\nexit 0\n", marker))
	v, store := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "fine.mp3", []byte("healthy"))
	testsupport.InsertFile(t, store, path, library.FormatMP3, "")

	report, err := v.Fix(context.Background(), nil, verify.FixOptions{Force: true})
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if report.IntegrityWarnings != 0 {
		t.Fatalf("warnings = %d, want 0", report.IntegrityWarnings)
	}
	if got := fixInvocations(t, marker); got != 0 {
		t.Fatalf("fix invocations = %d, want 0", got)
	}
}

func TestFixDeclinedLeavesFilesAlone(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	binDir := filepath.Join(t.TempDir(), "bin")
	marker := filepath.Join(binDir, "invocations")
	cfg.Tools.MP3Val = testsupport.StubTool(t, binDir, "mp3val", fixStub(marker))
	v, store := newTestVerifier(t, cfg, verify.WithPrompter(func(string) bool { return false }))

	path := writeTrack(t, cfg, "clip.mp3", []byte("damaged bytes"))
	testsupport.InsertFile(t, store, path, library.FormatMP3, "")

	if _, err := v.Fix(context.Background(), nil, verify.FixOptions{}); err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if got := fixInvocations(t, marker); got != 0 {
		t.Fatalf("fix invocations = %d, want 0", got)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "damaged bytes" {
		t.Errorf("file was modified after declined fix: %q", data)
	}
}

func TestOnItemImportedCarriesForwardChecksum(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutIntegrity())
	v, store := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "copied.mp3", []byte("identical content"))
	file := testsupport.InsertFile(t, store, path, library.FormatMP3, "")

	prior := strings.Repeat("b", 64)
	if err := v.OnItemImported(context.Background(), file, []string{"", prior}); err != nil {
		t.Fatalf("OnItemImported: %v", err)
	}
	got, err := store.GetByID(context.Background(), file.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Checksum != prior {
		t.Errorf("checksum = %q, want carried forward %q", got.Checksum, prior)
	}
}

func TestOnItemImportedComputesFreshChecksum(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithoutIntegrity())
	v, store := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "new.mp3", []byte("new content"))
	file := testsupport.InsertFile(t, store, path, library.FormatMP3, "")

	if err := v.OnItemImported(context.Background(), file, nil); err != nil {
		t.Fatalf("OnItemImported: %v", err)
	}
	got, _ := store.GetByID(context.Background(), file.ID)
	want, _, _ := digest.Compute(path)
	if got.Checksum != want {
		t.Errorf("checksum = %q, want %q", got.Checksum, want)
	}
}

func TestPreCommitCheckSkipsDamagedFilesWhenQuiet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	binDir := filepath.Join(t.TempDir(), "bin")
	cfg.Tools.MP3Val = testsupport.StubTool(t, binDir, "mp3val",
		`echo 'WARNING: "in.mp3" (offset 0x0): MPEG stream error'`+"\n")
	v, _ := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "in.mp3", []byte("incoming"))
	incoming := &library.MediaFile{Path: path, Format: library.FormatMP3}

	violations, skip := v.PreCommitCheck(context.Background(), []*library.MediaFile{incoming})
	if len(violations) != 1 {
		t.Fatalf("violations = %d, want 1", len(violations))
	}
	if !skip {
		t.Fatal("quiet run should skip damaged files")
	}
	if violations[0].Reason != "MPEG stream error" {
		t.Errorf("reason = %q", violations[0].Reason)
	}
}

func TestPreCommitCheckPassesHealthyFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	v, _ := newTestVerifier(t, cfg)

	path := writeTrack(t, cfg, "fine.mp3", []byte("healthy"))
	incoming := &library.MediaFile{Path: path, Format: library.FormatMP3}

	violations, skip := v.PreCommitCheck(context.Background(), []*library.MediaFile{incoming})
	if len(violations) != 0 || skip {
		t.Fatalf("violations = %d skip = %v, want none", len(violations), skip)
	}
}
