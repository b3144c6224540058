// Package ldapclient implements the LDAP capability of spec.md
// §4.A-LDAP: a simple bind against a directory server, used by scripts
// either to test credentials directly or as a precursor search-then-bind
// step.
package ldapclient

import (
	"fmt"
	"net"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// Bind dials addr and attempts a simple bind as dn/password. A bind
// rejection is reported as an ordinary false result, not an error;
// only connection and protocol failures are errors.
func Bind(addr string, timeout time.Duration, dn, password string) (bool, error) {
	l, err := ldap.DialURL(addr, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
	if err != nil {
		return false, scopeerr.Annotatef(err, scopeerr.Io, "connecting to %s", addr)
	}
	defer l.Close()

	if err := l.Bind(dn, password); err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultInvalidCredentials) {
			return false, nil
		}
		return false, scopeerr.Annotatef(err, scopeerr.Protocol, "ldap bind")
	}
	return true, nil
}

// SearchBindDN resolves a login name to a full DN by anonymously
// searching baseDN for (attr=login), then returns the DN of the first
// match so the caller can bind against it.
func SearchBindDN(addr string, timeout time.Duration, baseDN, attr, login string) (string, error) {
	l, err := ldap.DialURL(addr, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
	if err != nil {
		return "", scopeerr.Annotatef(err, scopeerr.Io, "connecting to %s", addr)
	}
	defer l.Close()

	filter := fmt.Sprintf("(%s=%s)", attr, ldap.EscapeFilter(login))
	req := ldap.NewSearchRequest(
		baseDN, ldap.ScopeWholeSubtree, ldap.NeverDerefAliases,
		1, 0, false, filter, []string{"dn"}, nil,
	)
	res, err := l.Search(req)
	if err != nil {
		return "", scopeerr.Annotatef(err, scopeerr.Protocol, "ldap search")
	}
	if len(res.Entries) == 0 {
		return "", scopeerr.New(scopeerr.NotFound, nil, "no ldap entry matched "+login)
	}
	return res.Entries[0].DN, nil
}

// EscapeDN escapes s for safe use as a DN component, e.g. when a
// script builds a bind DN out of untrusted input.
func EscapeDN(s string) string {
	return ldap.EscapeDN(s)
}
