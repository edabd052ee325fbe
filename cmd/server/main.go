package main

import (
	"flag"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"bonuspoint/impl/auth"
	"bonuspoint/impl/core"
	"bonuspoint/internal/config"
	"bonuspoint/internal/database"
	"bonuspoint/internal/http-server/api"
	"bonuspoint/internal/tgnotify"
	"bonuspoint/internal/vk"
	"bonuspoint/lib/logger"
	"bonuspoint/lib/sl"
)

const logFileName = "bonuspoint.log"

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	// environment overrides from a local .env, when present
	_ = godotenv.Load()

	conf := config.MustLoad(*configPath)
	log := logger.SetupLogger(conf.Env, filepath.Join(*logPath, logFileName))

	if conf.Telegram.Enabled {
		notifier, err := tgnotify.New(tgnotify.Config{
			APIKey: conf.Telegram.APIKey,
			ChatID: conf.Telegram.ChatID,
		}, log)
		if err != nil {
			log.Error("telegram notifier", sl.Err(err))
		} else {
			log = slog.New(logger.NewTelegramHandler(log.Handler(), notifier, slog.LevelWarn))
		}
	}
	log.Info("starting bonuspoint", slog.String("config", *configPath), slog.String("env", conf.Env))

	db, err := database.NewSQLClient(conf)
	if err != nil {
		log.Error("database connect", sl.Err(err))
		return
	}
	defer db.Close()

	vkClient := vk.NewClient(vk.Config{
		ServiceKey: conf.Vk.ServiceKey,
		APIVersion: conf.Vk.APIVersion,
	}, log)

	handler := core.New(db, vkClient, conf.Vk.BotURL, log)
	if sink := database.NewMongoClient(conf); sink != nil {
		handler.SetAuditSink(sink)
		log.Info("audit sink enabled", slog.String("database", conf.Mongo.Database))
	}

	sessionTTL := time.Duration(conf.Session.TTLHours) * time.Hour
	authService := auth.New(db, sessionTTL, log)

	if err = api.New(conf, log, handler, authService, db); err != nil {
		log.Error("api server stopped", sl.Err(err))
	}
}
