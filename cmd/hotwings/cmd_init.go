package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// defaultPlaybookName is the playbook used when none is given.
const defaultPlaybookName = "playbook.yml"

// playbookTemplate is the job specification written by init.
type playbookTemplate struct {
	Name      string            `yaml:"name"`
	Image     string            `yaml:"image"`
	Command   []string          `yaml:"command"`
	Env       map[string]string `yaml:"env"`
	Resources struct {
		CPU    string `yaml:"cpu"`
		Memory string `yaml:"memory"`
	} `yaml:"resources"`
}

// playbookYAML renders the template for a job called name.
func playbookYAML(name string) ([]byte, error) {
	tpl := playbookTemplate{
		Name:    name,
		Image:   "ubuntu:24.04",
		Command: []string{"./run.sh"},
		Env:     map[string]string{},
	}
	tpl.Resources.CPU = "1"
	tpl.Resources.Memory = "1Gi"

	var b strings.Builder
	b.WriteString("# hotwings job specification (playbook)\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(&tpl); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func newCmdInit() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:     "init [playbook]",
		Aliases: []string{"new"},
		Short:   "Create a new job specification YAML (aka playbook)",
		Long: `Create a new job specification YAML (aka playbook) in the current directory.

The file defaults to playbook.yml. An existing file is kept unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args, forceFlag)
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite an existing playbook")
	return cmd
}

func runInit(cmd *cobra.Command, args []string, forceFlag bool) error {
	name := defaultPlaybookName
	if len(args) > 0 {
		name = args[0]
	}
	path, err := filepath.Abs(name)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", name, err)
	}

	if !forceFlag {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use -f to overwrite)", path)
		}
	}

	jobName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := playbookYAML(jobName)
	if err != nil {
		return fmt.Errorf("generating playbook: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
