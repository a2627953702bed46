package file

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/binser/cmd/util"
	"github.com/ValentinKolb/binser/codec"
	"github.com/ValentinKolb/binser/codec/common"
	"github.com/ValentinKolb/binser/lib/stats"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	log = logger.GetLogger("cmd")

	// FileCommands represents the file command group
	FileCommands = &cobra.Command{
		Use:               "file",
		Short:             "Write and read binser archives",
		PersistentPreRunE: setupFile,
	}

	// writeCmd represents the write command
	writeCmd = &cobra.Command{
		Use:   "write [path]",
		Short: "Write sample records to an archive",
		Long:  "Write --records sample records to an archive, encoded with the configured --codec and --compression.",
		Args:  cobra.ExactArgs(1),
		RunE:  runWrite,
	}

	// readCmd represents the read command
	readCmd = &cobra.Command{
		Use:   "read [path]",
		Short: "Decode an archive and print a summary",
		Long:  "Decode all records of an archive. The codec and compression are taken from the archive header, the global flags are ignored.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRead,
	}
)

func init() {
	FileCommands.AddCommand(writeCmd)
	FileCommands.AddCommand(readCmd)

	key := "records"
	writeCmd.Flags().Int(key, 1000, util.WrapString("Number of sample records to write"))
	key = "value-size"
	writeCmd.Flags().Int(key, 256, util.WrapString("Size of the raw byte field of each sample (in bytes)"))
}

func setupFile(cmd *cobra.Command, _ []string) error {
	return util.BindCommandFlags(cmd)
}

func runWrite(_ *cobra.Command, args []string) error {
	cfg := util.GetCodecConfig()
	samples := common.NewSamples(viper.GetInt("records"), viper.GetInt("value-size"))

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("failed to create archive: %v", err)
	}
	defer f.Close()

	log.Debugf("writing %d samples to %s (%s)", len(samples), args[0], cfg.Name())
	sizes, err := codec.WriteArchive(f, cfg, samples)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d records to %s\n", len(samples), args[0])
	printSizes(sizes)
	if cfg.Metrics {
		fmt.Println()
		common.WriteMetrics(os.Stdout)
	}
	return nil
}

func runRead(_ *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open archive: %v", err)
	}
	defer f.Close()

	header, records, err := codec.ReadArchive[common.Sample](f)
	if err != nil {
		if len(records) > 0 {
			log.Warningf("archive %s is damaged, decoded %d of %d records", args[0], len(records), header.Count)
		}
		return err
	}

	info, err := f.Stat()
	if err != nil {
		return err
	}

	fmt.Printf("Archive %s (%d bytes)\n", args[0], info.Size())
	fmt.Println(header.Config().String())
	fmt.Printf("Records: %d\n", len(records))
	if len(records) > 0 {
		first := records[0]
		fmt.Printf("First record: id=%d name=%q labels=%v points=%d value=%d bytes\n",
			first.ID, first.Name, first.Labels, len(first.Points), len(first.Value))
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// printSizes prints the distribution of encoded record sizes
func printSizes(sizes []int) {
	h := stats.NewSizeHistogram()
	for _, s := range sizes {
		h.AddSample(s)
	}
	summary := stats.SummarizeSizes(sizes)

	fmt.Printf("Record sizes: avg %d B, p50 %d B, p99 %d B, min %.0f B, max %.0f B, stddev %.1f\n",
		h.Average(), h.Percentile(50), h.Percentile(99), summary.Min, summary.Max, summary.StdDeviation)
}
