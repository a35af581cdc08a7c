package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denysvitali/refgallery-watermark/internal/config"
)

var (
	cfgFile   string
	configMgr *config.Manager
	logger    *logrus.Logger
	rootCmd   = &cobra.Command{
		Use:   "refgallery-watermark",
		Short: "Watermark and preview images for a reference gallery",
		Long: `refgallery-watermark stamps gallery references and commissions with a
repeating, rotated, hollow text watermark ("DO NOT USE FOR AI TRAINING" by
default) and generates aspect-preserving miniatures for previews.`,
		PersistentPreRun: initializeConfig,
		SilenceUsage:     true,
	}
)

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/refgallery-watermark/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables
func initConfig() {
	configMgr = config.NewManager()

	if err := configMgr.LoadConfig(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

// initializeConfig initializes the logger
func initializeConfig(cmd *cobra.Command, args []string) {
	logger = logrus.New()

	levelName := configMgr.GetAppConfig().LogLevel
	if cmd.Flags().Changed("log-level") || levelName == "" {
		levelName = viper.GetString("log_level")
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if viper.GetBool("verbose") {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			DisableColors:    false,
		})
	}
}

// addWatermarkFlags registers the flags shared by commands that stamp images
func addWatermarkFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("text", "t", "", "watermark text (default from config)")
	cmd.Flags().Uint8P("opacity", "o", 0, "watermark opacity (0-255)")
	cmd.Flags().Int("outline", 0, "outline thickness in pixels (1-10)")
	cmd.Flags().IntP("quality", "q", 0, "JPEG output quality (1-100)")
	cmd.Flags().String("font-source", "", "font source: system or embedded")
}

// watermarkOverrides collects the flags the user actually set
func watermarkOverrides(cmd *cobra.Command) map[string]interface{} {
	overrides := make(map[string]interface{})
	flags := cmd.Flags()

	if flags.Changed("text") {
		v, _ := flags.GetString("text")
		overrides["watermark_text"] = v
	}
	if flags.Changed("opacity") {
		v, _ := flags.GetUint8("opacity")
		overrides["opacity"] = int(v)
	}
	if flags.Changed("outline") {
		v, _ := flags.GetInt("outline")
		overrides["outline_thickness"] = v
	}
	if flags.Changed("quality") {
		v, _ := flags.GetInt("quality")
		overrides["quality"] = v
	}
	if flags.Changed("font-source") {
		v, _ := flags.GetString("font-source")
		overrides["font_source"] = v
	}
	if flags.Changed("max-size") {
		v, _ := flags.GetInt("max-size")
		overrides["thumbnail_max_size"] = v
	}

	return overrides
}
