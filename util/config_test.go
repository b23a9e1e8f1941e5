package util

import (
	"path/filepath"
	"testing"
)

type testConfig struct {
	WorkerId   uint32
	CoordAddr  string
	WorkerAddr string
}

func TestJSONConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker_config.json")
	written := testConfig{WorkerId: 3, CoordAddr: "127.0.0.1:43440", WorkerAddr: "127.0.0.1:43456"}

	if err := WriteJSONConfig(path, written); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	var read testConfig
	if err := ReadJSONConfig(path, &read); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if read != written {
		t.Errorf("expected %+v but got %+v", written, read)
	}
}

func TestReadJSONConfigMissingFile(t *testing.T) {
	var config testConfig
	err := ReadJSONConfig(filepath.Join(t.TempDir(), "nope.json"), &config)
	if err == nil {
		t.Errorf("reading a missing config should fail")
	}
}

func TestConfigFilenameClassifiers(t *testing.T) {
	if !IsWorkerConfig("worker1_config.json") || IsWorkerConfig("coord_config.json") {
		t.Errorf("worker config classification is wrong")
	}
	if !IsClientConfig("client_config.json") || IsClientConfig("worker1_config.json") {
		t.Errorf("client config classification is wrong")
	}
	if !IsLoaderConfig("loader_config.json") || IsLoaderConfig("client_config.json") {
		t.Errorf("loader config classification is wrong")
	}
}
