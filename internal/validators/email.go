package validators

import (
	"net"
	"strings"
)

// LookupFunc resolves whether a mail domain exists. Tests swap it out.
var LookupFunc = lookupDomain

func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	return LookupFunc(email[at+1:])
}

func lookupDomain(domain string) bool {
	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}
