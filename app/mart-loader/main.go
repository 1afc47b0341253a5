package main

import (
	"errors"
	"fmt"
	logger "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"
	"github.com/martcast/martcast/app/mart-loader/martmanager"
	"github.com/martcast/martcast/business/holiday"
	"github.com/martcast/martcast/foundation/database"
	"github.com/nats-io/nats.go"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "MART_LOADER : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	// settings in .env are applied to the environment before configuration is parsed
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	var cfg struct {
		conf.Version
		Args conf.Args
		DB   struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
			MaxOpen    int    `conf:"default:4"`
		}
		NATS struct {
			Url     string `conf:"default:nats://localhost:4222"`
			Subject string `conf:"default:mart-batches"`
			Publish bool   `conf:"default:false"`
		}
		Source struct {
			EmartUrl  string `conf:"default:https://store.emart.com/branch/searchList.do"`
			CostcoUrl string `conf:"default:https://www.costco.co.kr/store-finder/search?q="`
			Schedule  string `conf:"default:5 0 * * *"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Load mart opening hours and holidays into database"
	const prefix = "MART_LOADER"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			printUsage(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// resolve needs neither database nor NATS
	if cfg.Args.Num(0) == "resolve" {
		return resolve(cfg.Args.Num(1), cfg.Args.Num(2))
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
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		DisableTLS:   cfg.DB.DisableTLS,
		MaxOpenConns: cfg.DB.MaxOpen,
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

	loaderConf := martmanager.Conf{
		EmartUrl:         cfg.Source.EmartUrl,
		CostcoUrl:        cfg.Source.CostcoUrl,
		Subject:          cfg.NATS.Subject,
		RecordToDatabase: true,
		PublishOverNats:  cfg.NATS.Publish,
		Schedule:         cfg.Source.Schedule,
	}

	switch cfg.Args.Num(0) {
	case "migrate":
		return database.Migrate(log, db)

	case "load":
		natsConn, err := connectNats(log, cfg.NATS.Url, cfg.NATS.Publish)
		if err != nil {
			return err
		}
		defer closeNats(log, natsConn)
		martTypes := cfg.Args[1:]
		err = martmanager.LoadMarts(log, db, natsConn, loaderConf, martTypes, time.Now().In(holiday.KST))
		if err != nil {
			return err
		}
		return martmanager.ListMarts(db, martTypes)

	case "watch":
		natsConn, err := connectNats(log, cfg.NATS.Url, cfg.NATS.Publish)
		if err != nil {
			return err
		}
		defer closeNats(log, natsConn)

		// Make a channel to listen for an interrupt or terminate signal from the OS.
		// Use a buffered channel because the signal package requires it.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		return martmanager.WatchMarts(log, db, natsConn, loaderConf, shutdown)

	case "list":
		return martmanager.ListMarts(db, cfg.Args[1:])

	case "closed":
		day, err := parseDay(cfg.Args.Num(1))
		if err != nil {
			return err
		}
		return martmanager.ListClosedMarts(db, day)

	default:
		printCommands()
		usage, err := conf.Usage(prefix, &cfg)
		if err != nil {
			return fmt.Errorf("generating config usage: %w", err)
		}
		printUsage(usage)
	}
	return nil
}

// connectNats connects to url when publishing is enabled, otherwise returns a nil connection
func connectNats(log *logger.Logger, url string, publish bool) (*nats.Conn, error) {
	if !publish {
		return nil, nil
	}
	log.Printf("main: Connecting to NATS : %s", url)
	natsConn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return natsConn, nil
}

func closeNats(log *logger.Logger, natsConn *nats.Conn) {
	if natsConn == nil {
		return
	}
	log.Printf("main: NATS Stopping")
	if err := natsConn.Drain(); err != nil {
		log.Printf("main: error draining nats connection: %v", err)
	}
}

// resolve prints the holidays of holidayText as of dayText, or today in Korea when dayText is empty
func resolve(holidayText string, dayText string) error {
	if len(holidayText) == 0 {
		return fmt.Errorf("expected holiday description with command resolve")
	}
	day, err := parseDay(dayText)
	if err != nil {
		return err
	}
	return martmanager.ResolveHolidayText(holidayText, day)
}

// parseDay parses a YYYY-MM-DD date in Korea, returning the current time in Korea when dayText is empty
func parseDay(dayText string) (time.Time, error) {
	if len(dayText) == 0 {
		return time.Now().In(holiday.KST), nil
	}
	day, err := time.ParseInLocation("2006-01-02", dayText, holiday.KST)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %s, expected YYYY-MM-DD, error: %w", dayText, err)
	}
	return day, nil
}

func printCommands() {
	fmt.Println("migrate: create or update the mart tables")
	fmt.Println("load [emart|costco ...]: retrieve marts, resolve holidays as of today and save them")
	fmt.Println("watch: load all marts on the configured schedule until interrupted")
	fmt.Println("list [emart|costco ...]: list marts in the database")
	fmt.Println("closed [YYYY-MM-DD]: list marts closed on a date, today by default")
	fmt.Println("resolve \"holiday description\" [YYYY-MM-DD]: show how a holiday description resolves")
}

func printUsage(confUsage string) {
	fmt.Println(confUsage)
}
