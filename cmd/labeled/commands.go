package main

import (
	"fmt"
	"io"

	"github.com/born-ml/labeled/internal/accessor"
	"github.com/born-ml/labeled/internal/config"
	"github.com/born-ml/labeled/internal/device"
	"github.com/born-ml/labeled/internal/labeled"
	"github.com/born-ml/labeled/internal/logger"
	"github.com/born-ml/labeled/internal/tensor"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type options struct {
	configPath string
	verbosity  string
	backend    string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "labeled",
		Short:         "Labeled arrays on host and device memory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verbosity") {
				cfg.Verbosity = opts.verbosity
			}
			if cmd.Flags().Changed("backend") {
				cfg.Backend.Kind = opts.backend
			}
			logger.SetupLogger(cfg.Verbosity)
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a configuration file")
	root.PersistentFlags().StringVar(&opts.verbosity, "verbosity", "info", "log level (info, debug, trace)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "mock", "device backend (mock, webgpu)")

	root.AddCommand(newVersionCmd(), newDevicesCmd(opts), newRoundTripCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "labeled %s\n", version)
		},
	}
}

type deviceReport struct {
	Backend   device.Info `yaml:"backend"`
	Available bool        `yaml:"available"`
}

func newDevicesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List device backends",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var mockOpts []device.MockOption
			if c := opts.cfg.Backend.CapacityBytes(); c > 0 {
				mockOpts = append(mockOpts, device.WithCapacity(c))
			}
			mock := device.NewMock(mockOpts...)
			gpu := &device.WebGPU{}

			reports := []deviceReport{
				{Backend: mock.Info(), Available: true},
				{Backend: gpu.Info(), Available: device.WebGPUAvailable()},
			}
			return writeYAML(cmd.OutOrStdout(), reports)
		},
	}
}

type roundTripReport struct {
	Backend   string            `yaml:"backend"`
	Variables int               `yaml:"variables"`
	Elements  int               `yaml:"elements"`
	Checksums map[string]string `yaml:"checksums"`
	OK        bool              `yaml:"ok"`
}

func newRoundTripCmd(opts *options) *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Move a sample dataset to the device and back, verifying checksums",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < 0 {
				return fmt.Errorf("--size must not be negative, got %d", size)
			}
			b, err := device.Open(opts.cfg.Backend.Kind, opts.cfg.Backend.CapacityBytes())
			if err != nil {
				return err
			}
			if gpu, ok := b.(*device.WebGPU); ok {
				defer gpu.Release()
			}

			report, err := roundTrip(b, size)
			if err != nil {
				return err
			}
			if err := writeYAML(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.OK {
				return fmt.Errorf("round trip on %s changed the data", report.Backend)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 1024, "elements per variable")
	return cmd
}

// sampleDataset builds a dataset with a float32 and an int64 variable along "x".
func sampleDataset(size int) (*labeled.Dataset, error) {
	signal := make([]float32, size)
	counts := make([]int64, size)
	index := make([]int64, size)
	for i := range signal {
		signal[i] = float32(i) * 0.5
		counts[i] = int64(i * i)
		index[i] = int64(i)
	}

	sig, err := labeled.FromSlice(signal, tensor.Shape{size}, "x")
	if err != nil {
		return nil, err
	}
	cnt, err := labeled.FromSlice(counts, tensor.Shape{size}, "x")
	if err != nil {
		return nil, err
	}
	x, err := labeled.Coord("x", index)
	if err != nil {
		return nil, err
	}

	return labeled.NewDataset(
		map[string]*labeled.DataArray{"signal": sig, "counts": cnt},
		labeled.Coords{"x": x},
		labeled.Attrs{"generator": "labeled roundtrip"},
	)
}

func roundTrip(b device.Backend, size int) (roundTripReport, error) {
	ds, err := sampleDataset(size)
	if err != nil {
		return roundTripReport{}, err
	}

	onDevice, err := accessor.Collection(ds).On(b).ToDevice()
	if err != nil {
		return roundTripReport{}, err
	}
	logrus.WithFields(logrus.Fields{
		"backend":   b.Info().Name,
		"variables": onDevice.Len(),
	}).Info("Dataset moved to device")

	back, err := accessor.Collection(onDevice).ToHost()
	if err != nil {
		return roundTripReport{}, err
	}

	report := roundTripReport{
		Backend:   b.Info().Name,
		Variables: ds.Len(),
		Elements:  size,
		Checksums: make(map[string]string, ds.Len()),
		OK:        true,
	}
	for _, name := range ds.Names() {
		orig, _ := ds.Var(name)
		got, _ := back.Var(name)

		want := orig.Data().(*tensor.RawTensor).Checksum()
		have := got.Data().(*tensor.RawTensor).Checksum()
		report.Checksums[name] = fmt.Sprintf("%016x", have)
		if want != have {
			logrus.WithField("variable", name).Error("Checksum mismatch after round trip")
			report.OK = false
		}

		if arr, ok := deviceArray(onDevice, name); ok {
			arr.Release()
		}
	}
	return report, nil
}

func deviceArray(ds *labeled.Dataset, name string) (*device.Array, bool) {
	da, ok := ds.Var(name)
	if !ok {
		return nil, false
	}
	arr, ok := da.Data().(*device.Array)
	return arr, ok
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
