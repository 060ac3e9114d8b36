package config

import (
	"net"
	"net/url"
	"strconv"
)

// hostPort joins host and port, bracketing IPv6 hosts.
func hostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// userInfo escapes credentials so characters like ':' or '@' in a
// password do not break the URL.
func userInfo(user, password string) string {
	if password == "" {
		return url.User(user).String()
	}
	return url.UserPassword(user, password).String()
}
