package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/canopy-network/canopy/lib/vss/will"
)

const (
	contractFileName = "contract.json"
	dirMode          = 0o700
	fileMode         = 0o600
)

func shareFileName(index int) string {
	return fmt.Sprintf("trustee-%d.json", index)
}

// writeWill persists the public contract and one file per trustee. The will
// secret is never written.
func writeWill(dir string, w *will.Will) (string, []string, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return "", nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	contractPath := filepath.Join(dir, contractFileName)
	if err := writeJSON(contractPath, w.ContractData()); err != nil {
		return "", nil, err
	}

	sharePaths := make([]string, 0, w.NumTrustees)
	for i := 1; i <= w.NumTrustees; i++ {
		file, err := w.TrusteeShareFile(i)
		if err != nil {
			return "", nil, err
		}
		path := filepath.Join(dir, shareFileName(i))
		if err := writeJSON(path, file); err != nil {
			return "", nil, err
		}
		sharePaths = append(sharePaths, path)
	}
	return contractPath, sharePaths, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), fileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func loadContract(path string) (*will.ContractData, error) {
	contract := &will.ContractData{}
	if err := readJSON(path, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

func loadShareFile(path string, contract *will.ContractData) (*will.TrusteeShareFile, error) {
	file := &will.TrusteeShareFile{}
	if err := readJSON(path, file); err != nil {
		return nil, err
	}
	if !file.SecretHash.Equal(contract.SecretHash) {
		return nil, fmt.Errorf("%s belongs to a different will", path)
	}
	return file, nil
}
