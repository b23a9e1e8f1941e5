package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"hopper/bfs"
	"hopper/database"
	"hopper/util"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: ./bin/worker [workerIdx] ...")
		fmt.Println("example: ./bin/worker 1 2 3")
		return
	}

	database.LoadEnv()

	workerWG := new(sync.WaitGroup)
	workerWG.Add(len(os.Args) - 1)

	for _, arg := range os.Args[1:] {
		idx, err := strconv.Atoi(arg)
		util.CheckErr(err, "Bad worker index %v: %v", arg, err)

		var config bfs.WorkerConfig
		err = util.ReadJSONConfig(
			fmt.Sprintf("config/worker%v_config.json", idx), &config,
		)
		util.CheckErr(err, "Error reading config for worker %v: %v", idx, err)

		worker := bfs.NewWorker(config)
		go func(id uint32) {
			defer workerWG.Done()
			if err := worker.Start(); err != nil {
				log.Printf("worker %v stopped: %v\n", id, err)
			}
		}(config.WorkerId)

		// stagger joins so fcheck monitors come up one at a time
		time.Sleep(time.Second)
	}

	workerWG.Wait()
}
