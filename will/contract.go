package will

import (
	"math/big"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/canopy-network/canopy/lib/vss"
)

// ContractData is the public part of a will, ready to be deployed to a
// contract or written to disk. Field elements are hex quantities; group
// elements are fixed-width big-endian byte strings since they exceed the
// 256-bit range of hexutil.Big.
type ContractData struct {
	SecretHash      vss.Digest           `json:"secret_hash"`
	DigestAlgorithm vss.DigestAlgorithm  `json:"digest_algorithm"`
	Commitments     []hexutil.Bytes      `json:"commitments"`
	Heirs           []gethcommon.Address `json:"heirs"`
	HeirPercentages []int                `json:"heir_percentages"`
	NumTrustees     int                  `json:"num_trustees"`
	Threshold       int                  `json:"threshold"`
	Prime           *hexutil.Big         `json:"prime"`
	GroupModulus    hexutil.Bytes        `json:"group_modulus"`
	GeneratorG      hexutil.Bytes        `json:"generator_g"`
	GeneratorH      hexutil.Bytes        `json:"generator_h"`
}

// TrusteeShareFile is what one trustee keeps: its index and share
type TrusteeShareFile struct {
	TrusteeIndex int          `json:"trustee_index"`
	F            *hexutil.Big `json:"f"`
	G            *hexutil.Big `json:"g"`
	SecretHash   vss.Digest   `json:"secret_hash"`
}

// RevealedShare converts the file into the form reconstruction takes
func (f *TrusteeShareFile) RevealedShare() (vss.RevealedShare, error) {
	if f.F == nil || f.G == nil {
		return vss.RevealedShare{}, invalid("share", "trustee %d share file is incomplete", f.TrusteeIndex)
	}
	return vss.RevealedShare{
		Index: f.TrusteeIndex,
		Share: vss.Share{F: f.F.ToInt(), G: f.G.ToInt()},
	}, nil
}

// ContractData exports the public will data
func (w *Will) ContractData() *ContractData {
	w.mu.Lock()
	defer w.mu.Unlock()

	width := (w.params.GroupModulus.BitLen() + 7) / 8
	commitments := make([]hexutil.Bytes, len(w.deal.Commitments))
	for j, c := range w.deal.Commitments {
		commitments[j] = fixedBytes(c, width)
	}

	return &ContractData{
		SecretHash:      w.Digest,
		DigestAlgorithm: w.DigestAlgorithm,
		Commitments:     commitments,
		Heirs:           append([]gethcommon.Address(nil), w.Heirs...),
		HeirPercentages: append([]int(nil), w.HeirPercentages...),
		NumTrustees:     w.NumTrustees,
		Threshold:       w.Threshold,
		Prime:           (*hexutil.Big)(new(big.Int).Set(w.params.P)),
		GroupModulus:    fixedBytes(w.params.GroupModulus, width),
		GeneratorG:      fixedBytes(w.params.G, width),
		GeneratorH:      fixedBytes(w.params.H, width),
	}
}

// TrusteeShareFile exports trustee index's share
func (w *Will) TrusteeShareFile(index int) (*TrusteeShareFile, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	share, err := w.trusteeShareLocked(index)
	if err != nil {
		return nil, err
	}
	return &TrusteeShareFile{
		TrusteeIndex: index,
		F:            (*hexutil.Big)(share.Share.F),
		G:            (*hexutil.Big)(share.Share.G),
		SecretHash:   w.Digest,
	}, nil
}

// FieldParams validates and returns the parameters the contract was dealt under
func (c *ContractData) FieldParams() (*vss.FieldParams, error) {
	if c.Prime == nil || len(c.GroupModulus) == 0 || len(c.GeneratorG) == 0 || len(c.GeneratorH) == 0 {
		return nil, invalid("contract", "field parameters are missing")
	}
	return vss.NewFieldParams(
		c.Prime.ToInt(),
		new(big.Int).SetBytes(c.GroupModulus),
		new(big.Int).SetBytes(c.GeneratorG),
		new(big.Int).SetBytes(c.GeneratorH),
	)
}

// CommitmentValues decodes the commitments
func (c *ContractData) CommitmentValues() []*big.Int {
	out := make([]*big.Int, len(c.Commitments))
	for j, b := range c.Commitments {
		out[j] = new(big.Int).SetBytes(b)
	}
	return out
}

// Validate checks the internal consistency of the contract
func (c *ContractData) Validate() error {
	if c.Threshold < 1 || c.Threshold > c.NumTrustees {
		return invalid("contract", "threshold %d out of range for %d trustees", c.Threshold, c.NumTrustees)
	}
	if len(c.Commitments) != c.Threshold {
		return invalid("contract", "have %d commitments for threshold %d", len(c.Commitments), c.Threshold)
	}
	if c.SecretHash.IsZero() {
		return invalid("contract", "secret hash is missing")
	}
	heirs := make([]string, len(c.Heirs))
	for i, h := range c.Heirs {
		heirs[i] = h.Hex()
	}
	_, err := validateHeirs(heirs, c.HeirPercentages)
	return err
}

// NewEngineForContract builds an engine over the contract's own parameters
// and digest algorithm, so shares can be checked without trusting local
// defaults
func NewEngineForContract(c *ContractData, opts ...vss.Option) (*vss.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	params, err := c.FieldParams()
	if err != nil {
		return nil, err
	}
	algorithm, err := vss.ParseDigestAlgorithm(string(c.DigestAlgorithm))
	if err != nil {
		return nil, err
	}
	all := append(append([]vss.Option(nil), opts...), vss.WithDigest(algorithm))
	return vss.NewEngine(params, all...)
}

func fixedBytes(x *big.Int, width int) hexutil.Bytes {
	buf := make([]byte, width)
	x.FillBytes(buf)
	return buf
}
