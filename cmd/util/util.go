package util

import (
	"strings"

	"github.com/ValentinKolb/binser/codec"
	"github.com/ValentinKolb/binser/codec/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupCodecFlags adds the codec selection flags to a command
func SetupCodecFlags(cmd *cobra.Command) {
	key := "codec"
	cmd.PersistentFlags().String(key, common.CodecNative, WrapString("Codec to use ("+strings.Join(common.Codecs, ", ")+")"))

	key = "compression"
	cmd.PersistentFlags().String(key, common.CompressionNone, WrapString("Compression applied to the encoded bytes ("+strings.Join(common.Compressions, ", ")+")"))

	key = "metrics"
	cmd.PersistentFlags().Bool(key, false, WrapString("Collect codec metrics and print them in Prometheus format when the command finishes"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("binser")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetCodecConfig reads the codec configuration from viper
func GetCodecConfig() common.CodecConfig {
	return common.CodecConfig{
		Codec:       viper.GetString("codec"),
		Compression: viper.GetString("compression"),
		Metrics:     viper.GetBool("metrics"),
	}
}

// GetCodec creates a codec based on configuration
func GetCodec() (codec.ICodec, error) {
	return codec.New(GetCodecConfig())
}

// BindCommandFlags binds a command's flags (including inherited ones) to viper
// and initializes the loggers with the configured level
func BindCommandFlags(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}
	return common.InitLoggers(viper.GetString("log-level"))
}
