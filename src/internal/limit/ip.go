// FILE: pidcat/src/internal/limit/ip.go
package limit

import (
	"fmt"
	"net"
	"strings"

	"github.com/lixenwraith/log"
)

// AccessList decides which remote addresses may reach the relay. Deny rules
// take precedence; a non-empty allow list admits only its members.
type AccessList struct {
	allow  []*net.IPNet
	deny   []*net.IPNet
	logger *log.Logger
}

// NewAccessList parses IP or CIDR entries. It returns nil when both lists
// are empty, and a nil list admits everyone.
func NewAccessList(allow, deny []string, logger *log.Logger) (*AccessList, error) {
	if len(allow) == 0 && len(deny) == 0 {
		return nil, nil
	}

	allowNets, err := parseNets(allow)
	if err != nil {
		return nil, fmt.Errorf("allow list: %w", err)
	}
	denyNets, err := parseNets(deny)
	if err != nil {
		return nil, fmt.Errorf("deny list: %w", err)
	}

	logger.Debug("msg", "Access list initialized",
		"component", "access_list",
		"allow_rules", len(allowNets),
		"deny_rules", len(denyNets))

	return &AccessList{allow: allowNets, deny: denyNets, logger: logger}, nil
}

func parseNets(entries []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid IP '%s'", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR '%s': %w", entry, err)
		}
		nets = append(nets, ipNet)
	}
	return nets, nil
}

// Allowed checks a "host:port" or bare host address
func (a *AccessList) Allowed(remoteAddr string) bool {
	if a == nil {
		return true
	}

	ip := net.ParseIP(clientIP(remoteAddr))
	if ip == nil {
		a.logger.Warn("msg", "Could not parse remote address to IP",
			"component", "access_list",
			"remote_addr", remoteAddr)
		return false
	}

	for _, ipNet := range a.deny {
		if ipNet.Contains(ip) {
			a.logger.Debug("msg", "Denied by rule",
				"component", "access_list",
				"ip", ip.String(),
				"rule", ipNet.String())
			return false
		}
	}

	if len(a.allow) == 0 {
		return true
	}
	for _, ipNet := range a.allow {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// GetStats returns access list statistics
func (a *AccessList) GetStats() map[string]any {
	if a == nil {
		return map[string]any{"enabled": false}
	}

	return map[string]any{
		"enabled":     true,
		"allow_rules": len(a.allow),
		"deny_rules":  len(a.deny),
	}
}
