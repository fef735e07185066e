package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/teeworlds-community/l10nsync/langfile"
	"github.com/teeworlds-community/l10nsync/merge"
)

func quietLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := logOut
	logOut = &buf
	t.Cleanup(func() { logOut = old })
	return &buf
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("os.ReadFile() error: %v", err)
	}
	return string(data)
}

// newProject lays out a game tree with the default paths.
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "game", "client", "menus.cpp"),
		"void Render()\n{\n\tLocalize(\"Hello\");\n\tLocalize(\"Bye\", \"menu\");\n}\n")
	writeFile(t, filepath.Join(root, "src", "engine", "external", "lib.c"),
		"Localize(\"Vendored\");\n")
	writeFile(t, filepath.Join(root, "data", "languages", "index.json"),
		`{"languages": [{"code": "french", "name": "Français"}]}`)
	writeFile(t, filepath.Join(root, "data", "languages", "french.json"), `{
	"authors": ["alice"],
	"translated strings": [
		{"or": "Hello", "tr": "Bonjour"},
		{"or": "Removed", "tr": "Supprimé"}
	]
}`)
	return root
}

func TestRunSyncWorkedExample(t *testing.T) {
	quietLogs(t)
	root := newProject(t)
	indexBefore := readFile(t, filepath.Join(root, "data", "languages", "index.json"))

	if err := runSync(root); err != nil {
		t.Fatalf("runSync() error: %v", err)
	}

	want := "{\n" +
		"\t\"authors\": [\n" +
		"\t\t\"alice\"\n" +
		"\t],\n" +
		"\t\"translated strings\": [\n" +
		"\t\t{\n" +
		"\t\t\t\"or\": \"Hello\",\n" +
		"\t\t\t\"tr\": \"Bonjour\"\n" +
		"\t\t},\n" +
		"\t\t{\n" +
		"\t\t\t\"context\": \"menu\",\n" +
		"\t\t\t\"or\": \"Bye\",\n" +
		"\t\t\t\"tr\": \"\"\n" +
		"\t\t}\n" +
		"\t]\n" +
		"}"
	got := readFile(t, filepath.Join(root, "data", "languages", "french.json"))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("french.json mismatch (-want +got):\n%s", diff)
	}

	if after := readFile(t, filepath.Join(root, "data", "languages", "index.json")); after != indexBefore {
		t.Fatalf("index.json was modified:\n%s", after)
	}
}

func TestRunSyncIsIdempotent(t *testing.T) {
	quietLogs(t)
	root := newProject(t)
	path := filepath.Join(root, "data", "languages", "french.json")

	if err := runSync(root); err != nil {
		t.Fatalf("first runSync() error: %v", err)
	}
	first := readFile(t, path)

	if err := runSync(root); err != nil {
		t.Fatalf("second runSync() error: %v", err)
	}
	if second := readFile(t, path); second != first {
		t.Fatalf("second run changed the file:\n--- first\n%s\n--- second\n%s", first, second)
	}
}

func TestRunSyncMissingAuthorsNamesFile(t *testing.T) {
	logs := quietLogs(t)
	root := newProject(t)
	broken := filepath.Join(root, "data", "languages", "german.json")
	writeFile(t, broken, `{"translated strings": []}`)

	err := runSync(root)
	if !errors.Is(err, langfile.ErrMissingAuthors) {
		t.Fatalf("runSync() error = %v, want ErrMissingAuthors", err)
	}
	if !strings.Contains(err.Error(), "german.json") {
		t.Fatalf("error %v should name the file", err)
	}
	if !strings.Contains(logs.String(), "Failed on "+broken) {
		t.Fatalf("log should report the failing file, got:\n%s", logs.String())
	}

	// french.json sorts first and was already rewritten; no rollback.
	if got := readFile(t, filepath.Join(root, "data", "languages", "french.json")); strings.Contains(got, "Removed") {
		t.Fatalf("french.json should have been rewritten before the failure:\n%s", got)
	}
	if got := readFile(t, broken); got != `{"translated strings": []}` {
		t.Fatalf("failing file must be left untouched, got:\n%s", got)
	}
}

func TestRunSyncWithConfig(t *testing.T) {
	quietLogs(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".l10nsync.yaml"), `
source_dir: code
languages_dir: data/client_lang
skip_segment: thirdparty
escape_non_ascii: false
archive_stale: true
`)
	writeFile(t, filepath.Join(root, "code", "ui.cpp"), `Localize("Café");`)
	writeFile(t, filepath.Join(root, "code", "thirdparty", "x.cpp"), `Localize("Skip me");`)
	writeFile(t, filepath.Join(root, "data", "client_lang", "fr.json"), `{
		"authors": [],
		"needs translation": [{"or": "Café", "tr": "Café"}],
		"old translations": [{"or": "Gone", "tr": "Parti"}]
	}`)

	if err := runSync(root); err != nil {
		t.Fatalf("runSync() error: %v", err)
	}

	f, err := langfile.ParseFile(filepath.Join(root, "data", "client_lang", "fr.json"))
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	wantTranslated := []langfile.Entry{{Or: "Café", Tr: "Café"}}
	if diff := cmp.Diff(wantTranslated, f.Categories[langfile.KeyTranslated]); diff != "" {
		t.Fatalf("translated mismatch (-want +got):\n%s", diff)
	}
	wantOld := []langfile.Entry{{Or: "Gone", Tr: "Parti"}}
	if diff := cmp.Diff(wantOld, f.Categories[langfile.KeyOldTranslations]); diff != "" {
		t.Fatalf("archived mismatch (-want +got):\n%s", diff)
	}
	if raw := readFile(t, filepath.Join(root, "data", "client_lang", "fr.json")); !strings.Contains(raw, "Café") {
		t.Fatalf("non-ASCII should be written raw when escape_non_ascii is false:\n%s", raw)
	}
}

func TestRunSyncMissingSourceDir(t *testing.T) {
	quietLogs(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data", "languages", "fr.json"), `{"authors": []}`)

	if err := runSync(root); err == nil {
		t.Fatal("runSync() error = nil, want error for missing source dir")
	}
}

func TestRunCheck(t *testing.T) {
	logs := quietLogs(t)
	root := newProject(t)

	err := runCheck(root)
	if !errors.Is(err, errOutOfDate) {
		t.Fatalf("runCheck() before sync = %v, want errOutOfDate", err)
	}
	if !strings.Contains(logs.String(), "french.json") {
		t.Fatalf("check should list the stale file, got:\n%s", logs.String())
	}
	before := readFile(t, filepath.Join(root, "data", "languages", "french.json"))
	if !strings.Contains(before, "Removed") {
		t.Fatal("check must not write files")
	}

	if err := runSync(root); err != nil {
		t.Fatalf("runSync() error: %v", err)
	}
	if err := runCheck(root); err != nil {
		t.Fatalf("runCheck() after sync = %v, want nil", err)
	}
}

func TestRunStatus(t *testing.T) {
	logs := quietLogs(t)
	root := newProject(t)

	if err := runStatus(root); err != nil {
		t.Fatalf("runStatus() error: %v", err)
	}
	out := logs.String()
	for _, want := range []string{"french", "Français", "50%", "Source strings: 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
	if got := readFile(t, filepath.Join(root, "data", "languages", "french.json")); !strings.Contains(got, "Removed") {
		t.Fatal("status must not write files")
	}
}

func TestDescribeLanguage(t *testing.T) {
	index := &langfile.Index{Languages: []langfile.Language{{Code: "fr", Name: "Français"}}}

	row := describeLanguage("fr", index, merge.Stats{})
	if row.name != "Français" || row.flag == "" {
		t.Fatalf("describeLanguage(fr) = %#v", row)
	}

	row = describeLanguage("german", nil, merge.Stats{})
	if row.name != "German" || row.flag == "" {
		t.Fatalf("describeLanguage(german) = %#v", row)
	}
}

func TestPrintStatusAlignsCodes(t *testing.T) {
	var buf bytes.Buffer
	rows := []statusRow{
		{code: "fr", name: "French", stats: merge.Stats{Total: 2, Translated: 2}},
		{code: "simplified_chinese", name: "Simplified Chinese", stats: merge.Stats{Total: 2}},
	}
	printStatus(io.Writer(&buf), rows, 2)

	out := buf.String()
	if !strings.Contains(out, "fr                 2") {
		t.Fatalf("codes should be padded to the widest one:\n%s", out)
	}
	if !strings.Contains(out, "100%") || !strings.Contains(out, "0%") {
		t.Fatalf("percentages missing:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Setenv("LANGUAGE", "en")
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(buf.String(), "l10nsync version dev") {
		t.Fatalf("version output = %q", buf.String())
	}
}
