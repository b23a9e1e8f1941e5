package main

import (
	"hopper/bfs"
	"hopper/bfs/api"
	"hopper/database"
	"hopper/util"
	"log"
)

func main() {
	var config bfs.CoordConfig
	err := util.ReadJSONConfig("config/coord_config.json", &config)
	util.CheckErr(err, "Error reading coord config: %v", err)

	database.LoadEnv()

	coord := bfs.NewCoord()

	go func() {
		err := api.ServeClientAPI(config.ClientAPIListenAddr, coord, config.EnableGRPCWeb)
		log.Fatalf("client API stopped: %v", err)
	}()

	err = coord.Start(config)
	util.CheckErr(err, "Error starting coord: %v", err)
}
