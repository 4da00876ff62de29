package display

import (
	"fmt"
	"net"
	"unicode/utf8"
)

const FallbackIP = "127.0.0.1"

// TruncateText shortens s to at most max runes, ending in "..." when cut.
func TruncateText(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	if max < 3 {
		return string([]rune(s)[:max])
	}

	return string([]rune(s)[:max-3]) + "..."
}

// LocalIP returns the address of the interface used for outbound traffic.
// No packet is sent: dialling UDP only selects a route.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return FallbackIP
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil {
		return FallbackIP
	}

	return addr.IP.String()
}

func EditorURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}
