// Package fchecker implements heartbeat-based failure detection over UDP.
// A responder answers every heartbeat it receives with an ack; a monitor
// sends heartbeats to one remote responder and reports a failure after
// LostMsgThresh consecutive heartbeats go unacknowledged.
package fchecker

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"net"
	"time"
)

// Heartbeat message.
type HBeatMessage struct {
	EpochNonce uint64 // identifies this fchecker instance/epoch
	SeqNum     uint64 // unique for each heartbeat in an epoch
}

// An ack message; response to a heartbeat.
type AckMessage struct {
	EpochNonce uint64 // copy of what was received in the heartbeat
	SeqNum     uint64 // copy of what was received in the heartbeat
}

// Notification of a failure, sent to the library user on the notify channel.
type FailureDetected struct {
	UDPIpPort   string // the remote ip:port of the failed node
	MonitoredId uint32
	Timestamp   time.Time
}

type StartStruct struct {
	AckLocalIPAckLocalPort       string // always set: where to answer heartbeats
	EpochNonce                   uint64
	HBeatLocalIPHBeatLocalPort   string // empty: respond to heartbeats only
	HBeatRemoteIPHBeatRemotePort string // set with the above: monitor this node
	LostMsgThresh                uint8
	MonitoredId                  uint32
}

const (
	initialRTT        = 3 * time.Second
	minRTT            = 500 * time.Millisecond
	heartbeatInterval = 1 * time.Second
	maxDatagram       = 1024
)

// Fcheck is one running detector instance: an ack responder, and optionally
// a monitor of a single remote node. Multiple instances can run in one
// process, which is how the coordinator monitors every worker.
type Fcheck struct {
	notifyCh chan FailureDetected
	ackAddr  string
	ackConn  *net.UDPConn
	hbConn   *net.UDPConn
	stop     chan struct{}
}

// Start launches the responder (always) and, if heartbeat addresses are
// given, the monitor goroutine.
func Start(arg StartStruct) (*Fcheck, error) {
	ackAddr, err := net.ResolveUDPAddr("udp", arg.AckLocalIPAckLocalPort)
	if err != nil {
		return nil, fmt.Errorf("fcheck: could not resolve ack address %v: %v", arg.AckLocalIPAckLocalPort, err)
	}
	ackConn, err := net.ListenUDP("udp", ackAddr)
	if err != nil {
		return nil, fmt.Errorf("fcheck: could not listen for heartbeats on %v: %v", arg.AckLocalIPAckLocalPort, err)
	}

	f := &Fcheck{
		ackAddr: ackConn.LocalAddr().String(),
		ackConn: ackConn,
		stop:    make(chan struct{}),
	}
	go f.respond()

	if arg.HBeatLocalIPHBeatLocalPort == "" {
		return f, nil
	}

	localAddr, err := net.ResolveUDPAddr("udp", arg.HBeatLocalIPHBeatLocalPort)
	if err != nil {
		ackConn.Close()
		return nil, fmt.Errorf("fcheck: could not resolve heartbeat address %v: %v", arg.HBeatLocalIPHBeatLocalPort, err)
	}
	remoteAddr, err := net.ResolveUDPAddr("udp", arg.HBeatRemoteIPHBeatRemotePort)
	if err != nil {
		ackConn.Close()
		return nil, fmt.Errorf("fcheck: could not resolve remote address %v: %v", arg.HBeatRemoteIPHBeatRemotePort, err)
	}
	hbConn, err := net.DialUDP("udp", localAddr, remoteAddr)
	if err != nil {
		ackConn.Close()
		return nil, fmt.Errorf("fcheck: could not dial %v: %v", arg.HBeatRemoteIPHBeatRemotePort, err)
	}

	f.hbConn = hbConn
	f.notifyCh = make(chan FailureDetected, 1)
	go f.monitor(arg)
	return f, nil
}

// NotifyCh returns the failure channel, nil for responder-only instances.
// At most one failure is ever delivered per instance; the channel closes
// when the monitor stops without detecting one.
func (f *Fcheck) NotifyCh() <-chan FailureDetected {
	return f.notifyCh
}

// AckAddr returns the resolved address the responder listens on.
func (f *Fcheck) AckAddr() string {
	return f.ackAddr
}

// Stop tears the instance down. No failure is reported after Stop returns.
func (f *Fcheck) Stop() {
	close(f.stop)
	f.ackConn.Close()
	if f.hbConn != nil {
		f.hbConn.Close()
	}
}

func (f *Fcheck) stopped() bool {
	select {
	case <-f.stop:
		return true
	default:
		return false
	}
}

// respond answers every well-formed heartbeat with an ack echoing its epoch
// nonce and sequence number.
func (f *Fcheck) respond() {
	buf := make([]byte, maxDatagram)
	for {
		n, srcAddr, err := f.ackConn.ReadFromUDP(buf)
		if err != nil {
			if !f.stopped() {
				log.Printf("fcheck: respond: read error: %v\n", err)
			}
			return
		}

		var hbeat HBeatMessage
		decoder := gob.NewDecoder(bytes.NewBuffer(buf[0:n]))
		if err := decoder.Decode(&hbeat); err != nil {
			log.Printf("fcheck: respond: decode error: %v\n", err)
			continue
		}

		ack := AckMessage{EpochNonce: hbeat.EpochNonce, SeqNum: hbeat.SeqNum}
		var msgBuf bytes.Buffer
		if err := gob.NewEncoder(&msgBuf).Encode(ack); err != nil {
			log.Printf("fcheck: respond: encode error: %v\n", err)
			continue
		}
		if _, err := f.ackConn.WriteToUDP(msgBuf.Bytes(), srcAddr); err != nil {
			log.Printf("fcheck: respond: write error: %v\n", err)
		}
	}
}

// monitor sends heartbeats and waits for acks, one outstanding at a time.
// The RTT estimate is the running average of measured round trips, floored
// so a burst of fast acks cannot shrink the timeout into instability.
// Closing the notify channel on exit tells the user no failure is coming,
// which is how Stop unblocks a reader.
func (f *Fcheck) monitor(arg StartStruct) {
	defer close(f.notifyCh)
	log.Printf("fcheck: monitor: monitoring %v from %v\n", f.hbConn.RemoteAddr(), f.hbConn.LocalAddr())

	rtt := initialRTT
	seqNum := uint64(0)
	lostMsgs := uint8(0)
	sendTimes := make(map[uint64]time.Time)
	buf := make([]byte, maxDatagram)

	for {
		if f.stopped() {
			return
		}

		hbeat := HBeatMessage{EpochNonce: arg.EpochNonce, SeqNum: seqNum}
		sendTimes[seqNum] = time.Now()
		var msgBuf bytes.Buffer
		if err := gob.NewEncoder(&msgBuf).Encode(hbeat); err != nil {
			log.Printf("fcheck: monitor: encode error: %v\n", err)
			return
		}
		if _, err := f.hbConn.Write(msgBuf.Bytes()); err != nil {
			if f.stopped() {
				return
			}
			log.Printf("fcheck: monitor: write error: %v\n", err)
			f.fail(arg)
			return
		}

		if err := f.hbConn.SetReadDeadline(time.Now().Add(rtt)); err != nil {
			log.Printf("fcheck: monitor: SetReadDeadline error: %v\n", err)
			return
		}

		n, err := f.hbConn.Read(buf)
		if err != nil {
			if f.stopped() {
				return
			}
			if e, ok := err.(net.Error); ok && e.Timeout() {
				lostMsgs++
				if lostMsgs >= arg.LostMsgThresh {
					log.Printf("fcheck: monitor: %v unacked heartbeats, declaring %v failed\n",
						lostMsgs, arg.HBeatRemoteIPHBeatRemotePort)
					f.fail(arg)
					return
				}
				seqNum++
				continue
			}
			log.Printf("fcheck: monitor: read error: %v\n", err)
			f.fail(arg)
			return
		}

		var ack AckMessage
		decoder := gob.NewDecoder(bytes.NewBuffer(buf[0:n]))
		if err := decoder.Decode(&ack); err != nil {
			log.Printf("fcheck: monitor: decode error: %v\n", err)
			continue
		}
		if ack.EpochNonce != arg.EpochNonce {
			continue
		}

		if sentAt, ok := sendTimes[ack.SeqNum]; ok {
			measured := time.Since(sentAt)
			rtt = (rtt + measured) / 2
			if rtt < minRTT {
				rtt = minRTT
			}
			delete(sendTimes, ack.SeqNum)
		}
		lostMsgs = 0
		seqNum++
		time.Sleep(heartbeatInterval)
	}
}

func (f *Fcheck) fail(arg StartStruct) {
	f.notifyCh <- FailureDetected{
		UDPIpPort:   arg.HBeatRemoteIPHBeatRemotePort,
		MonitoredId: arg.MonitoredId,
		Timestamp:   time.Now(),
	}
}
