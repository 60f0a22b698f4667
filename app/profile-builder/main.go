package main

import (
	"fmt"
	logger "log"
	"os"

	"github.com/OpenBikeTools/bikecast/app/profile-builder/builder"
	"github.com/OpenBikeTools/bikecast/business/data/profiles"
	"github.com/OpenBikeTools/bikecast/foundation/database"
	"github.com/ardanlabs/conf"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "PROFILE_BUILDER : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	var cfg struct {
		conf.Version
		Args conf.Args
		DB   struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
		}
		Profiles struct {
			DataSource       string `conf:"default:ridership"`
			HolidaysAsSunday bool   `conf:"default:true"`
			ArtifactPath     string `conf:"default:"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Aggregate trip records into station flow profiles"
	if err := conf.Parse(os.Args[1:], "PROFILE_BUILDER", &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage("PROFILE_BUILDER", &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString("PROFILE_BUILDER", &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	// =========================================================================
	// Start Database

	log.Println("main: Initializing database support")

	db, err := database.Open(database.Config{
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Printf("main: Database Stopping : %s", cfg.DB.Host)
		err = db.Close()
		if err != nil {
			log.Printf("main: error closing database: %v", err)
		}
	}()

	lookup, err := builder.BuildLookup(log, db, cfg.Profiles.DataSource, cfg.Profiles.HolidaysAsSunday)
	if err != nil {
		return err
	}
	log.Printf("main: built %d profiles for %d stations over %d weeks",
		lookup.ProfileCount(), lookup.StationCount(), lookup.Metadata.WeekCount)

	if err = profiles.RecordLookup(db, lookup); err != nil {
		return fmt.Errorf("recording lookup: %w", err)
	}
	log.Println("main: lookup recorded to database")

	if len(cfg.Profiles.ArtifactPath) > 0 {
		if err = lookup.WriteFile(cfg.Profiles.ArtifactPath); err != nil {
			return fmt.Errorf("writing lookup artifact: %w", err)
		}
		log.Printf("main: lookup artifact written to %s", cfg.Profiles.ArtifactPath)
	}
	return nil
}
