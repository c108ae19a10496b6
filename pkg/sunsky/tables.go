package sunsky

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Fixed grid sizes of the precomputed atmosphere datasets
const (
	// SkyCtrlPts is the number of sun-elevation control points in the
	// radiance/parameter datasets
	SkyCtrlPts = 6

	// TGMM grid: turbidity levels 2..10 stored as TGMMTurbidityLevels-1
	// blocks, elevation control points every 3 degrees starting at 2
	TGMMTurbidityLevels  = 10
	TGMMElevationCtrlPts = 30
	TGMMComponents       = 5
	TGMMGaussianParams   = 5
)

// Dataset holds one radiance-model coefficient table, addressed as
// [channel][albedo][turbidity][elevation control point][row]. The row is the
// flattened per-entry coefficient vector (model parameters or a single mean
// radiance value).
type Dataset struct {
	Channels        int
	AlbedoLevels    int
	TurbidityLevels int
	CtrlPts         int
	RowLen          int
	Data            []float64
}

// Row returns the coefficient row at the given grid position. The returned
// slice aliases the dataset and must be treated as read-only.
func (d *Dataset) Row(channel, albedo, turbidity, ctrlPt int) []float64 {
	idx := ((channel*d.AlbedoLevels+albedo)*d.TurbidityLevels+turbidity)*d.CtrlPts + ctrlPt
	return d.Data[idx*d.RowLen : (idx+1)*d.RowLen]
}

func (d *Dataset) validate() error {
	want := d.Channels * d.AlbedoLevels * d.TurbidityLevels * d.CtrlPts * d.RowLen
	if len(d.Data) != want {
		return errors.Errorf("dataset size mismatch: have %d values, dimensions require %d", len(d.Data), want)
	}
	if d.AlbedoLevels < 2 || d.TurbidityLevels < 2 || d.CtrlPts < 2 {
		return errors.Errorf("dataset grid too small: albedo=%d turbidity=%d ctrlpts=%d",
			d.AlbedoLevels, d.TurbidityLevels, d.CtrlPts)
	}
	return nil
}

// TGMMTable holds the flat truncated-Gaussian mixture dataset, addressed as
// [turbidity level][elevation control point][component][5 params]. The five
// parameters per component are mu_phi, mu_theta, sigma_phi, sigma_theta and
// the mixture weight.
type TGMMTable struct {
	TurbidityLevels  int
	ElevationCtrlPts int
	Components       int
	Data             []float64
}

// turbidityBlockSize is the number of values per tabulated turbidity level
func (t *TGMMTable) turbidityBlockSize() int {
	return len(t.Data) / (t.TurbidityLevels - 1)
}

// mixtureSize is the number of values per (turbidity, elevation) cell
func (t *TGMMTable) mixtureSize() int {
	return t.turbidityBlockSize() / t.ElevationCtrlPts
}

func (t *TGMMTable) validate() error {
	want := (t.TurbidityLevels - 1) * t.ElevationCtrlPts * t.Components * TGMMGaussianParams
	if len(t.Data) != want {
		return errors.Errorf("tgmm table size mismatch: have %d values, dimensions require %d", len(t.Data), want)
	}
	return nil
}

// Tables bundles the precomputed table resources the model needs. They are
// loaded once at startup and shared read-only by every model instance.
type Tables struct {
	SkyParams   *Dataset
	SkyRadiance *Dataset
	TGMM        *TGMMTable
}

// Binary container magics for the table files
var (
	datasetMagic = [4]byte{'S', 'K', 'Y', 'D'}
	tgmmMagic    = [4]byte{'T', 'G', 'M', 'M'}
)

// ReadDataset decodes a coefficient dataset from its binary container:
// a 4-byte magic, five little-endian uint32 dimensions (channels, albedo
// levels, turbidity levels, control points, row length), then the float32
// payload in row-major order.
func ReadDataset(r io.Reader) (*Dataset, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.Wrap(err, "reading dataset header")
	}
	if magic != datasetMagic {
		return nil, errors.Errorf("bad dataset magic %q", magic)
	}

	var dims [5]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, errors.Wrap(err, "reading dataset dimensions")
	}

	d := &Dataset{
		Channels:        int(dims[0]),
		AlbedoLevels:    int(dims[1]),
		TurbidityLevels: int(dims[2]),
		CtrlPts:         int(dims[3]),
		RowLen:          int(dims[4]),
	}

	data, err := readFloat32Payload(r, d.Channels*d.AlbedoLevels*d.TurbidityLevels*d.CtrlPts*d.RowLen)
	if err != nil {
		return nil, errors.Wrap(err, "reading dataset payload")
	}
	d.Data = data

	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadTGMM decodes a mixture table from its binary container: a 4-byte
// magic, three little-endian uint32 dimensions (turbidity levels, elevation
// control points, components), then the float32 payload.
func ReadTGMM(r io.Reader) (*TGMMTable, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.Wrap(err, "reading tgmm header")
	}
	if magic != tgmmMagic {
		return nil, errors.Errorf("bad tgmm magic %q", magic)
	}

	var dims [3]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, errors.Wrap(err, "reading tgmm dimensions")
	}

	t := &TGMMTable{
		TurbidityLevels:  int(dims[0]),
		ElevationCtrlPts: int(dims[1]),
		Components:       int(dims[2]),
	}

	data, err := readFloat32Payload(r, (t.TurbidityLevels-1)*t.ElevationCtrlPts*t.Components*TGMMGaussianParams)
	if err != nil {
		return nil, errors.Wrap(err, "reading tgmm payload")
	}
	t.Data = data

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func readFloat32Payload(r io.Reader, count int) ([]float64, error) {
	raw := make([]float32, count)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, err
	}
	data := make([]float64, count)
	for i, v := range raw {
		data[i] = float64(v)
	}
	return data, nil
}

// LoadTables reads the three table files from disk. The result is immutable
// and safe to share across models and goroutines.
func LoadTables(paramsPath, radiancePath, tgmmPath string) (*Tables, error) {
	params, err := loadDatasetFile(paramsPath)
	if err != nil {
		return nil, err
	}
	radiance, err := loadDatasetFile(radiancePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(tgmmPath)
	if err != nil {
		return nil, errors.Wrapf(err, "opening tgmm table %s", tgmmPath)
	}
	defer f.Close()
	tgmm, err := ReadTGMM(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading tgmm table %s", tgmmPath)
	}

	return &Tables{SkyParams: params, SkyRadiance: radiance, TGMM: tgmm}, nil
}

func loadDatasetFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dataset %s", path)
	}
	defer f.Close()
	d, err := ReadDataset(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading dataset %s", path)
	}
	return d, nil
}
