// This file loads machine definitions from YAML files, so deployments
// can declare lifecycles per template without a code change.
package fsm

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/praxis-works/onto/pkg/types"
)

// machinesFile is the top-level shape of a machine definition file.
type machinesFile struct {
	Machines []*types.Machine `yaml:"machines"`
}

// LoadDir registers every machine declared in the .yaml/.yml files of
// dir, in filename order. A missing directory is not an error; a
// malformed file or machine is.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading machines dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		if err := r.loadFile(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var file machinesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, m := range file.Machines {
		if err := r.Register(m); err != nil {
			return fmt.Errorf("machine %q in %s: %w", m.Prefix, path, err)
		}
	}
	return nil
}
