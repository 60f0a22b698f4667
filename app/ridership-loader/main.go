package main

import (
	"fmt"
	logger "log"
	"os"

	"github.com/OpenBikeTools/bikecast/app/ridership-loader/tripmanager"
	"github.com/OpenBikeTools/bikecast/foundation/database"
	"github.com/ardanlabs/conf"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "RIDERSHIP_LOADER : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
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
		Trips struct {
			Pattern string `conf:"default:*.csv"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Load bike share ridership csv exports into database"
	if err := conf.Parse(os.Args[1:], "RIDERSHIP_LOADER", &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage("RIDERSHIP_LOADER", &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString("RIDERSHIP_LOADER", &cfg)
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

	switch cfg.Args.Num(0) {
	case "load":
		pattern := cfg.Args.Num(1)
		if len(pattern) < 1 {
			pattern = cfg.Trips.Pattern
		}
		loaded, discarded, err := tripmanager.LoadTripFiles(log, db, pattern)
		if err != nil {
			return err
		}
		log.Printf("main: loaded %d trip records in total, discarded %d", loaded, discarded)
		return tripmanager.ListTripRecordCount(log, db)

	case "count":
		return tripmanager.ListTripRecordCount(log, db)

	default:
		return fmt.Errorf("expected command: load <pattern> or count")
	}
}
