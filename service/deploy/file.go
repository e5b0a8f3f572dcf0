package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"creditrust/core"
)

// Load read and validate a deployment-info.json file. Files written before
// the version field existed are read as version 1.
func Load(path string) (*core.Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var d core.Deployment
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrDeploymentInvalid, err.Error())
	}

	if d.Version == 0 {
		d.Version = 1
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}

	return &d, nil
}

// Save write d to path atomically, readers never see a partial file
func Save(path string, d *core.Deployment) error {
	if err := d.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	return nil
}
