package main

import (
	"os"

	"github.com/high-creek-software/storeradius"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import-postcodes FILE",
	Short: "Load a postcode CSV into the local gazetteer",
	Long:  `import-postcodes reads a CSV with postcode, latitude and longitude columns and stores it in the PostGIS or SpatiaLite postcode table used by the postgis and spatialite geocoders.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "opening postcode csv")
		}
		defer f.Close()

		repo, closeRepo, err := openRepository(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeRepo()

		n, err := storeradius.NewManagerImpl(repo, logger).ImportPostcodes(cmd.Context(), f)
		if err != nil {
			return err
		}
		cmd.Printf("imported %d postcodes\n", n)
		return nil
	},
}
