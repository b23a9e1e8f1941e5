package util

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"net/rpc"
	"os"
)

func ReadJSONConfig(filename string, config interface{}) error {
	configData, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}
	err = json.Unmarshal(configData, config)
	if err != nil {
		return err
	}
	return nil
}

func WriteJSONConfig(filename string, config interface{}) error {
	configData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, configData, 0644)
}

func CheckErr(err error, errfmsg string, fargs ...interface{}) {
	if err != nil {
		fmt.Fprintf(os.Stderr, errfmsg+"\n", fargs...)
		os.Exit(1)
	}
}

func DialTCPCustom(localAddr string, remoteAddr string) (*net.TCPConn, error) {
	var laddr *net.TCPAddr
	var err error

	if localAddr != "" {
		laddr, err = net.ResolveTCPAddr("tcp", localAddr)
		if err != nil {
			return nil, fmt.Errorf("could not resolve local address %v: %v", localAddr, err)
		}
	}

	raddr, err := net.ResolveTCPAddr("tcp", remoteAddr)
	if err != nil {
		return nil, fmt.Errorf("could not resolve remote address %v: %v", remoteAddr, err)
	}

	return net.DialTCP("tcp", laddr, raddr)
}

func DialRPC(addr string) (*rpc.Client, error) {
	conn, err := DialTCPCustom("", addr)
	if err != nil {
		return nil, err
	}
	return rpc.NewClient(conn), nil
}
