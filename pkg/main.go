package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	pkg "github.com/wavelength/sociogram/internal"
	"github.com/wavelength/sociogram/internal/cache"
	"github.com/wavelength/sociogram/internal/cms"
	"github.com/wavelength/sociogram/internal/http"
	"github.com/wavelength/sociogram/internal/http/api"
	"github.com/wavelength/sociogram/internal/services"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" ____             _\n/ ___|  ___   ___(_) ___   __ _ _ __ __ _ _ __ ___\n\\___ \\ / _ \\ / __| |/ _ \\ / _` | '__/ _` | '_ ` _ \\\n ___) | (_) | (__| | (_) | (_| | | | (_| | | | | | |\n|____/ \\___/ \\___|_|\\___/ \\__, |_|  \\__,_|_| |_| |_|\n                          |___/"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Sociogram"), pkg.AppVersion)
	fmt.Printf("The social networking surface over a headless backend\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	viper.SetDefault("bind", "0.0.0.0:8445")
	viper.SetDefault("security.cookie_name", "sg_token")
	viper.SetDefault("cms.read_rate", 10)
	viper.SetDefault("cms.read_window", "500ms")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Prepare the in-process cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when setting up the cache store.")
	}

	// Connect the headless backend
	scheduler := cms.NewWindowScheduler(
		viper.GetInt("cms.read_rate"),
		viper.GetDuration("cms.read_window"),
	)
	services.Cx = cms.NewClient(viper.GetString("cms.endpoint"), scheduler)
	log.Info().Str("endpoint", viper.GetString("cms.endpoint")).Msg("Headless backend client is ready.")

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", func() {
		removed := api.Opt.Sweep(30 * time.Minute)
		if removed > 0 {
			log.Info().Int("count", removed).Msg("Swept resolved interactive actions.")
		}
	})
	quartz.Start()

	// Server
	go http.NewServer().Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
