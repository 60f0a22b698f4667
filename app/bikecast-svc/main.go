package main

import (
	"fmt"
	logger "log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/OpenBikeTools/bikecast/app/bikecast-svc/availability"
	"github.com/OpenBikeTools/bikecast/business/data/gbfs"
	"github.com/OpenBikeTools/bikecast/business/data/geocode"
	"github.com/OpenBikeTools/bikecast/business/data/locations"
	"github.com/OpenBikeTools/bikecast/business/data/profiles"
	"github.com/OpenBikeTools/bikecast/business/predict"
	"github.com/OpenBikeTools/bikecast/foundation/database"
	"github.com/ardanlabs/conf"
	"github.com/nats-io/nats.go"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "BIKECAST : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
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
		GBFS struct {
			InformationUrl string `conf:"default:https://tor.publicbikesystem.net/ube/gbfs/v1/en/station_information"`
			StatusUrl      string `conf:"default:https://tor.publicbikesystem.net/ube/gbfs/v1/en/station_status"`
			RefreshSeconds int    `conf:"default:60"`
		}
		Profiles struct {
			ArtifactPath string `conf:"default:"`
		}
		Service struct {
			HttpPort   int    `conf:"default:8080"`
			ApiKeyPath string `conf:"default:.bikecast_api_key"`
		}
		Engine struct {
			PredictionStations  int     `conf:"default:2"`
			DisplayStations     int     `conf:"default:5"`
			SeverityThreshold   float64 `conf:"default:15"`
			WarningHorizonHours int     `conf:"default:4"`
			AbsoluteFloor       int     `conf:"default:5"`
		}
		Locations struct {
			Path string `conf:"default:"`
		}
		Geocode struct {
			Url       string `conf:"default:https://nominatim.openstreetmap.org/search"`
			UserAgent string `conf:"default:bikecast/1.0"`
			ViewBox   string `conf:"default:"`
		}
		NATS struct {
			Url           string `conf:"default:nats://localhost:4222"`
			Enable        bool   `conf:"default:false"`
			ReportSubject string `conf:"default:bikecast-reports"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Serve live bike share availability predictions"
	if err := conf.Parse(os.Args[1:], "BIKECAST", &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage("BIKECAST", &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString("BIKECAST", &cfg)
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

	locationsPath := cfg.Locations.Path
	if len(locationsPath) == 0 {
		locationsPath, err = locations.DefaultPath()
		if err != nil {
			return fmt.Errorf("finding locations config path: %w", err)
		}
	}

	geocodeConfig := geocode.Config{
		URL:       cfg.Geocode.Url,
		UserAgent: cfg.Geocode.UserAgent,
		ViewBox:   cfg.Geocode.ViewBox,
	}

	switch cfg.Args.Num(0) {
	case "set-home":
		return setLocation(log, locationsPath, geocodeConfig, locations.HomeKey, cfg.Args[1:])
	case "set-work":
		return setLocation(log, locationsPath, geocodeConfig, locations.WorkKey, cfg.Args[1:])
	case "", "serve":
		// fall through to serve below
	default:
		return fmt.Errorf("expected command: serve, set-home <address> or set-work <address>")
	}

	// =========================================================================
	// Serve

	configured, err := locations.Load(locationsPath)
	if err != nil {
		return fmt.Errorf("loading configured locations: %w", err)
	}
	if !locations.HasHomeAndWork(configured) {
		return fmt.Errorf("home and work locations are not configured, " +
			"run the set-home and set-work commands first")
	}
	home := placeFor(locations.HomeKey, configured)
	work := placeFor(locations.WorkKey, configured)

	dbConfig := database.Config{
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
	}
	lookup, err := loadLookup(log, dbConfig, cfg.Profiles.ArtifactPath)
	if err != nil {
		return err
	}
	log.Printf("main: loaded %d profiles for %d stations",
		lookup.ProfileCount(), lookup.StationCount())

	apiKey, err := availability.LoadOrCreateAPIKey(log, cfg.Service.ApiKeyPath)
	if err != nil {
		return err
	}

	var natsConn *nats.Conn
	if cfg.NATS.Enable {
		natsConn, err = nats.Connect(cfg.NATS.Url)
		if err != nil {
			return fmt.Errorf("connecting to nats at %s: %w", cfg.NATS.Url, err)
		}
		defer natsConn.Close()
		log.Printf("main: publishing reports to nats subject %s", cfg.NATS.ReportSubject)
	}

	feed := gbfs.MakeFeed(log, cfg.GBFS.InformationUrl, cfg.GBFS.StatusUrl)

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	engineConfig := predict.DefaultConfig()
	engineConfig.PredictionSetSize = cfg.Engine.PredictionStations
	engineConfig.DisplaySetSize = cfg.Engine.DisplayStations
	engineConfig.SeverityThreshold = cfg.Engine.SeverityThreshold
	engineConfig.WarningHorizonHours = cfg.Engine.WarningHorizonHours
	engineConfig.AbsoluteFloor = cfg.Engine.AbsoluteFloor

	availability.StartService(log, engineConfig, lookup, feed, home, work,
		cfg.GBFS.RefreshSeconds, cfg.Service.HttpPort, apiKey,
		natsConn, cfg.NATS.Enable, cfg.NATS.ReportSubject, shutdown)
	return nil
}

// loadLookup reads the profile lookup from a json artifact when a path is
// configured, falling back to the latest build in the database
func loadLookup(log *logger.Logger, dbConfig database.Config,
	artifactPath string) (*profiles.Lookup, error) {

	if len(artifactPath) > 0 {
		log.Printf("main: loading lookup artifact from %s", artifactPath)
		return profiles.LoadLookupFile(artifactPath)
	}

	log.Println("main: Initializing database support")
	db, err := database.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.Printf("main: error closing database: %v", err)
		}
	}()
	return profiles.GetLookup(db)
}

func placeFor(key string, configured map[string]locations.Location) predict.Place {
	location := configured[key]
	return predict.Place{
		Name:    key,
		Address: location.Address,
		Lat:     location.Lat,
		Lon:     location.Lon,
	}
}

// setLocation geocodes the address in args and saves it under key
func setLocation(log *logger.Logger, path string, geocodeConfig geocode.Config,
	key string, args []string) error {

	query := strings.TrimSpace(strings.Join(args, " "))
	if len(query) == 0 {
		return fmt.Errorf("expected an address with command set-%s", key)
	}

	result, err := geocode.Search(geocodeConfig, query)
	if err != nil {
		return fmt.Errorf("geocoding %q: %w", query, err)
	}
	if result == nil {
		return fmt.Errorf("no match found for %q", query)
	}

	configured, err := locations.Load(path)
	if err != nil {
		return fmt.Errorf("loading configured locations: %w", err)
	}
	configured[key] = locations.Location{
		Lat:     result.Lat,
		Lon:     result.Lon,
		Address: result.Address,
	}
	if err = locations.Save(path, configured); err != nil {
		return fmt.Errorf("saving configured locations: %w", err)
	}
	log.Printf("saved %s location %s at %f,%f", key, result.Address, result.Lat, result.Lon)
	return nil
}
