// Command uzconv converts Uzbek text between the Latin and Cyrillic scripts.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ad/telegram-uz-translit/translit"
)

func main() {
	if err := newRootCommand(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "uzconv [text...]",
		Short: "Uzbek Latin <-> Cyrillic converter",
		Long: `uzconv converts Uzbek text between the Latin and Cyrillic scripts.

Text is taken from the arguments, from --file, or from stdin.

Examples:
  uzconv -t cyrillic "O'zbekiston"      # Ўзбекистон
  uzconv -t latin < matn.txt
  uzconv -t latin --apostrophe ʻ -f matn.txt`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.uzconv.yaml)")
	cmd.Flags().StringP("to", "t", "cyrillic", "Target script: cyrillic or latin")
	cmd.Flags().StringP("file", "f", "", "Read text from file instead of arguments or stdin")
	cmd.Flags().String("apostrophe", "'", "Apostrophe written in Latin output")

	for _, name := range []string{"to", "file", "apostrophe"} {
		_ = v.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	return cmd
}

func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".uzconv")
	}

	v.SetEnvPrefix("UZCONV")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func run(cmd *cobra.Command, v *viper.Viper, args []string) error {
	d, err := translit.ParseDirection(v.GetString("to"))
	if err != nil {
		return err
	}

	var opts []translit.Option
	if a := v.GetString("apostrophe"); a != "" {
		r, size := utf8.DecodeRuneInString(a)
		if size != len(a) {
			return fmt.Errorf("apostrophe must be a single character, got %q", a)
		}
		opts = append(opts, translit.WithApostrophe(r))
	}

	out := cmd.OutOrStdout()

	if len(args) > 0 {
		_, err := fmt.Fprintln(out, translit.Convert(d, strings.Join(args, " "), opts...))

		return err
	}

	in := cmd.InOrStdin()
	if file := v.GetString("file"); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()

		in = f
	}

	r := transform.NewReader(in, transform.Chain(norm.NFC, translit.NewTransformer(d, opts...)))
	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	return nil
}
