package main

import (
	"context"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"hopper/bfs"
	"hopper/bfs/api"
	"hopper/util"
)

func main() {
	// read config
	var config api.ClientConfig
	err := util.ReadJSONConfig("config/client_config.json", &config)
	util.CheckErr(err, "Error reading client config: %v", err)

	// create a log file and log to both console and terminal
	logFile, err := os.OpenFile(
		"hopper.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)
	// logs all start with ClientId from config
	log.SetPrefix(config.ClientId + ": ")

	log.Printf("Client: main.go: args: %v\n", os.Args)

	invalidInput := false
	var query bfs.Query

	if len(os.Args) < 3 || len(os.Args) > 4 {
		invalidInput = true
	} else if strings.EqualFold(os.Args[1], bfs.QUERY_TYPE_BFS) {
		if len(os.Args) != 3 {
			invalidInput = true
		} else {
			root, err := strconv.ParseUint(os.Args[2], 10, 64)
			if err != nil {
				log.Println("Provided node could not be converted to integer")
				invalidInput = true
			} else {
				query.QueryType = bfs.QUERY_TYPE_BFS
				query.Root = root
			}
		}
	} else if strings.EqualFold(os.Args[1], bfs.QUERY_TYPE_PATH) {
		if len(os.Args) != 4 {
			invalidInput = true
		} else {
			root, err := strconv.ParseUint(os.Args[2], 10, 64)
			if err != nil {
				log.Println("Provided node could not be converted to integer")
				invalidInput = true
			}
			target, err := strconv.ParseUint(os.Args[3], 10, 64)
			if err != nil {
				log.Println("Provided node could not be converted to integer")
				invalidInput = true
			} else {
				query.QueryType = bfs.QUERY_TYPE_PATH
				query.Root = root
				query.Target = target
				query.HasTarget = true
			}
		}
	} else {
		invalidInput = true
	}

	if invalidInput {
		log.Println("Usage: ./bin/client [bfs|path] [nodeId] [nodeId]")
		log.Println("Example: ./bin/client bfs 11")
		log.Println("Example: ./bin/client path 11 54")
		return
	}

	query.Graph = config.Graph
	if query.Graph == "" {
		query.Graph = bfs.GRAPH_STAGED
		query.NumNodes = config.NumNodes
	}

	client := api.NewClient()
	notifyCh, err := client.Start(config.ClientId, config.CoordAddr)
	util.CheckErr(err, "Error connecting to coord: %v", err)
	defer client.Stop()

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	progressCh, err := client.WatchProgress(watchCtx)
	if err != nil {
		log.Printf("Client: could not watch progress: %v\n", err)
	}

	err = client.SendQuery(query)
	util.CheckErr(err, "Error sending query: %v", err)
	log.Printf("Client sent %v query with root %v\n", query.QueryType, query.Root)

	if progressCh != nil {
		go func() {
			for p := range progressCh {
				if p.Done {
					log.Printf("Client: query finished, reached %v nodes\n", p.Claimed)
					continue
				}
				log.Printf("Client: round %v claimed %v sent %v\n", p.Round, p.Claimed, p.Sent)
			}
		}()
	}

	result := <-notifyCh
	if result.Error != "" {
		log.Printf("Client: SendQuery error: %v\n", result.Error)
		return
	}
	log.Printf("Client: reached %v of %v nodes in %v rounds\n",
		result.Reached, result.NumNodes, result.Rounds)
	if query.QueryType == bfs.QUERY_TYPE_PATH {
		if result.Distance < 0 {
			log.Printf("Client: node %v is not reachable from %v\n", query.Target, query.Root)
		} else {
			log.Printf("Client: path %v has %v hops\n", result.Path, result.Distance)
		}
	}
}
