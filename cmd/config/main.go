package main

import (
	"fmt"
	"os"
	"strconv"

	"hopper/util"
)

const defaultBasePort = 43450

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: ./bin/config [sync|port] [basePort]")
		fmt.Println("example: ./bin/config sync")
		return
	}

	if os.Args[1] == "sync" {
		err := util.SynchronizeConfigs()
		if err != nil {
			fmt.Println("Failed to synchronize config files", err)
		}
	} else if os.Args[1] == "port" {
		basePort := defaultBasePort
		if len(os.Args) == 3 {
			port, err := strconv.Atoi(os.Args[2])
			if err != nil {
				fmt.Println("Bad base port", os.Args[2])
				return
			}
			basePort = port
		}
		err := util.AssignPorts(basePort)
		if err != nil {
			fmt.Println("Failed to assign port numbers to workers", err)
		}
	} else {
		fmt.Println("usage: ./bin/config [sync|port] [basePort]")
		fmt.Println("example: ./bin/config sync")
	}
}
