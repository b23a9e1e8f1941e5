package util

import (
	"fmt"
	"os"
	"strings"
)

const (
	WORKERS = "worker"
	CLIENT  = "client"
	LOADER  = "loader"
)

// Configs are edited as generic JSON objects rather than typed structs:
// round-tripping through a partial struct would silently drop fields the
// sync tool does not know about (storage sections in particular).
func readConfigObject(filename string) (map[string]interface{}, error) {
	obj := make(map[string]interface{})
	if err := ReadJSONConfig(filename, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func writeConfigObject(filename string, obj map[string]interface{}) error {
	return WriteJSONConfig(filename, obj)
}

// SynchronizeConfigs copies the coordinator's listen addresses into every
// worker, client and loader config under config/, so the address only needs
// editing in one place.
func SynchronizeConfigs() error {
	files, err := os.ReadDir("config")
	if err != nil {
		return err
	}

	coord, err := readConfigObject(GetConfigPath("coord_config.json"))
	if err != nil {
		return err
	}

	for _, file := range files {
		filename := file.Name()

		if IsClientConfig(filename) {
			obj, err := readConfigObject(GetConfigPath(filename))
			if err != nil {
				return err
			}
			obj["CoordAddr"] = coord["ClientAPIListenAddr"]
			if err := writeConfigObject(GetConfigPath(filename), obj); err != nil {
				return err
			}
		}
		if IsWorkerConfig(filename) {
			obj, err := readConfigObject(GetConfigPath(filename))
			if err != nil {
				return err
			}
			obj["CoordAddr"] = coord["WorkerAPIListenAddr"]
			if err := writeConfigObject(GetConfigPath(filename), obj); err != nil {
				return err
			}
		}
		if IsLoaderConfig(filename) {
			obj, err := readConfigObject(GetConfigPath(filename))
			if err != nil {
				return err
			}
			obj["CoordExternalAddr"] = coord["ExternalAPIListenAddr"]
			if err := writeConfigObject(GetConfigPath(filename), obj); err != nil {
				return err
			}
		}
	}
	return nil
}

// AssignPorts rewrites every worker config with a non-clashing set of
// localhost ports, starting from basePort and advancing by one per address.
func AssignPorts(basePort int) error {
	files, err := os.ReadDir("config")
	if err != nil {
		return err
	}

	port := basePort
	nextAddr := func() string {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		port++
		return addr
	}

	for _, file := range files {
		filename := file.Name()
		if !IsWorkerConfig(filename) {
			continue
		}
		obj, err := readConfigObject(GetConfigPath(filename))
		if err != nil {
			return err
		}
		obj["WorkerAddr"] = nextAddr()
		obj["WorkerListenAddr"] = nextAddr()
		obj["FCheckAckLocalAddress"] = nextAddr()
		if err := writeConfigObject(GetConfigPath(filename), obj); err != nil {
			return err
		}
	}
	return nil
}

func IsClientConfig(filename string) bool {
	return strings.HasPrefix(filename, CLIENT)
}

func IsWorkerConfig(filename string) bool {
	return strings.HasPrefix(filename, WORKERS)
}

func IsLoaderConfig(filename string) bool {
	return strings.HasPrefix(filename, LOADER)
}

func GetConfigPath(filename string) string {
	return fmt.Sprintf("config/%s", filename)
}
