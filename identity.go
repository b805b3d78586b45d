package esappender

import (
	"net"
	"os"
)

// fallbackHostName is used when no other host identity can be found.
const fallbackHostName = "127.0.0.1"

// hostnameFn and interfaceAddrsFn are replaced in tests.
var (
	hostnameFn       = os.Hostname
	interfaceAddrsFn = net.InterfaceAddrs
)

// ResolveHostName returns the host identity written to every document.
//
// Resolution order:
//  1. ESAPPENDER_HOST_NAME environment variable
//  2. os.Hostname()
//  3. the first non-loopback interface address
//  4. "127.0.0.1"
func ResolveHostName() string {
	if name := os.Getenv("ESAPPENDER_HOST_NAME"); name != "" {
		return name
	}
	if name, err := hostnameFn(); err == nil && name != "" {
		return name
	}
	if ip := firstNonLoopbackIP(); ip != "" {
		return ip
	}
	return fallbackHostName
}

func firstNonLoopbackIP() string {
	addrs, err := interfaceAddrsFn()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return ""
}
