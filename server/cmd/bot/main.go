package main

import (
	"context"
	"flag"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dstudy/Chaos-Crew-sub000/config"
	"github.com/Dstudy/Chaos-Crew-sub000/network"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
	"github.com/Dstudy/Chaos-Crew-sub000/shared/protocol"
)

func main() {
	tuning := config.Bot
	flag.StringVar(&tuning.Address, "addr", tuning.Address, "Server host:port")
	flag.StringVar(&tuning.Name, "name", tuning.Name, "Player name")
	flag.DurationVar(&tuning.ActionInterval, "interval", tuning.ActionInterval, "Delay between item actions")
	flag.Float64Var(&tuning.TeleportChance, "teleport", tuning.TeleportChance, "Chance an action passes the item on")
	token := flag.String("token", "", "Reconnect token from an earlier join")
	flag.Parse()

	logger.Init()
	log := logger.For("bot")

	if err := protocol.RegisterComponents(); err != nil {
		log.WithError(err).Fatal("failed to register components")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := network.NewClient()
	client.Connect(tuning.Address, "", tuning.Name, *token)
	defer client.Disconnect()

	ticker := time.NewTicker(tuning.ActionInterval)
	defer ticker.Stop()

	var brain *network.Brain
	for {
		select {
		case <-ctx.Done():
			return
		case <-client.Done():
			if err := client.Status().Err; err != nil {
				log.WithError(err).Error("bot stopped")
				os.Exit(1)
			}
			log.Info("session over")
			return
		case <-ticker.C:
		}

		st := client.Status()
		if st.State != network.StateJoinedGame {
			continue
		}
		if brain == nil {
			seed, _ := strconv.ParseUint(st.PlayerID, 10, 64)
			brain = network.NewBrain(st.PlayerID, tuning, rand.New(rand.NewPCG(seed, uint64(time.Now().UnixNano()))))
			log.WithFields(logrus.Fields{"player": st.PlayerID, "token": st.ReconnectToken}).Info("playing")
		}

		if len(client.DrainReloads()) > 0 {
			brain.Reset()
		}
		for _, v := range client.DrainSpawns() {
			brain.Spawned(v)
		}
		for _, r := range client.DrainReleases() {
			brain.Released(r.InstanceID)
		}

		msg := brain.Next()
		if msg == nil {
			continue
		}
		if err := client.SendMessage(msg); err != nil {
			log.WithError(err).Warn("action not sent")
		}
	}
}
