// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pkgsync",
	Short: "pkgsync uploads installed packages into the object store",
	Long: `pkgsync synchronizes installed packages with the object store.

The static content trees of a package (www and admin) are uploaded as attachments
of a container object. Upgrades apply the package descriptor (io-package.json) to the
package object and merge the declared settings into every instance bound to this host.
`,
	SilenceUsage: true,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addStoreFlag(rootCmd)
	addPackagesFlag(rootCmd)
	addPrefixFlag(rootCmd)
	addHostnameFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addPaceFlag(rootCmd)
	addConcurrencyFlag(rootCmd)
	addMetricsFlag(rootCmd)
	addMetricsURLFlag(rootCmd)
	addMetricsPeriodFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault(storeKey, "badger://"+defaultStorePath())
	viper.SetDefault(packagesKey, "node_modules")
	viper.SetDefault(prefixKey, "iobroker")
	viper.SetDefault(logLevelKey, "info")
	viper.SetDefault(concurrencyKey, 0)
	if hostname, err := os.Hostname(); err == nil {
		viper.SetDefault(hostnameKey, hostname)
	}

	if os.Getenv("PKGSYNC_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("PKGSYNC_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.pkgsync")
		viper.AddConfigPath("/etc/pkgsync")
		viper.SetConfigName("pkgsync")
	}

	viper.SetEnvPrefix("pkgsync")
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}

	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("invalid configuration", err)
	}
}
