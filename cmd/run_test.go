package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Sources", "Foo.swift"), "let x = 1\n")
	writeFile(t, filepath.Join(dir, "Pods", "Lib", "Lib.swift"), "let y = 2\n")
	writeFile(t, filepath.Join(dir, "sonar-reports", "coverage.xml"), `<coverage>
  <packages><package name="App"><classes>
    <class name="Foo" filename="Sources/Foo.swift">
      <lines>
        <line number="1" hits="3"/>
        <line number="2" hits="0" branch="true" condition-coverage="50% (1/2)"/>
      </lines>
    </class>
  </classes></package></packages>
</coverage>`)
	writeFile(t, filepath.Join(dir, "sonar-reports", "coverage-broken.xml"), `<coverage><packages><package><classes><class filename="Sources/Foo.swift"><lines><line number="1" hits="abc"/>`)
	writeFile(t, filepath.Join(dir, "sonar-reports", "app-swiftlint.txt"),
		"Sources/Foo.swift:1:3: warning: Identifier Name Violation: Variable name should be between 3 and 40 characters long: 'x' (identifier_name)\n"+
			"Pods/Lib/Lib.swift:1: warning: Trailing Newline Violation: Files should have a single trailing newline (trailing_newline)\n")
	return dir
}

func TestRunCommand(t *testing.T) {
	dir := setupProject(t)
	outDir := t.TempDir()
	sarifPath := filepath.Join(outDir, "out", "findings.sarif")
	coveragePath := filepath.Join(outDir, "coverage.xml")

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{
		"run",
		"--base-dir", dir,
		"--exclude", "Pods/*",
		"--sarif-output", sarifPath,
		"--coverage-output", coveragePath,
		"--verbosity", "Off",
	})
	require.NoError(t, root.Execute())

	summary := stdout.String()
	assert.Contains(t, summary, "Reports: 3, failed: 1, emitted: 2, unresolved: 1")

	sarifData, err := os.ReadFile(sarifPath)
	require.NoError(t, err)
	assert.Contains(t, string(sarifData), `"identifier_name"`)
	assert.Contains(t, string(sarifData), `"Sources/Foo.swift"`)
	assert.NotContains(t, string(sarifData), "trailing_newline", "excluded files are not reported")

	coverageData, err := os.ReadFile(coveragePath)
	require.NoError(t, err)
	assert.Contains(t, string(coverageData), `<file path="Sources/Foo.swift">`)
	assert.Contains(t, string(coverageData), `<lineToCover lineNumber="2" covered="false" branchesToCover="2" coveredBranches="1">`)
}

func TestRunCommand_ConfigFile(t *testing.T) {
	dir := setupProject(t)
	cfgPath := filepath.Join(t.TempDir(), "reportingest.yml")
	writeFile(t, cfgPath, "base_dir: "+dir+"\ndisabled: [coverage, oclint, tailor]\nlogger:\n  level: \"off\"\n")

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--config", cfgPath})
	require.NoError(t, root.Execute())

	assert.Contains(t, stdout.String(), "SwiftLint")
	assert.NotContains(t, stdout.String(), "Cobertura")
	assert.Contains(t, stdout.String(), "Reports: 1, failed: 0, emitted: 2, unresolved: 0")
}

func TestRunCommand_InvalidConfiguration(t *testing.T) {
	for _, args := range [][]string{
		{"run", "--base-dir", filepath.Join(t.TempDir(), "missing")},
		{"run", "--disable", "jacoco"},
		{"run", "--verbosity", "loud"},
		{"run", "--config", filepath.Join(t.TempDir(), "none.yml")},
	} {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(args)
		assert.Error(t, root.Execute(), args)
	}
}

func TestVersionCommand(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), `"version": "unknown"`)
}
