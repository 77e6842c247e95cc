package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat selects how results are printed
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer writes command results in the configured format
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a printer writing to writer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintCreated reports a newly created will
func (p *Printer) PrintCreated(dir, contractPath string, sharePaths []string, digest string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"dir":         dir,
			"contract":    contractPath,
			"shares":      sharePaths,
			"secret_hash": digest,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Secret hash: %s\n", digest)
		fmt.Fprintf(p.writer, "Contract:    %s\n", contractPath)
		for _, path := range sharePaths {
			fmt.Fprintf(p.writer, "Share:       %s\n", path)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintVerification reports the outcome of checking one trustee share
func (p *Printer) PrintVerification(index int, valid bool) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"trustee_index": index,
			"valid":         valid,
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Trustee %d share valid: %t\n", index, valid)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintReconstruction reports the outcome of a reconstruction. secret is
// empty unless the caller asked for it.
func (p *Printer) PrintReconstruction(shares int, matches bool, secret string) error {
	switch p.format {
	case OutputFormatJSON:
		out := map[string]interface{}{
			"shares":  shares,
			"matches": matches,
		}
		if secret != "" {
			out["secret"] = secret
		}
		return p.printJSON(out)
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Shares used: %d\n", shares)
		fmt.Fprintf(p.writer, "Reconstruction successful: %t\n", matches)
		if secret != "" {
			fmt.Fprintf(p.writer, "Secret: %s\n", secret)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintValue writes v as indented JSON regardless of the format
func (p *Printer) PrintValue(v interface{}) error {
	return p.printJSON(v)
}

// PrintError writes err in the configured format
func (p *Printer) PrintError(err error) error {
	if p.format == OutputFormatJSON {
		return p.printJSON(map[string]interface{}{"error": err.Error()})
	}
	_, werr := fmt.Fprintf(p.writer, "Error: %v\n", err)
	return werr
}

func (p *Printer) printJSON(v interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
