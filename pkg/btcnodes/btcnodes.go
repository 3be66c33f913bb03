package btcnodes

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

var (
	// ErrInvalidNodeAddress is returned when a node address has an empty or
	// ambiguous host, or an invalid port.
	ErrInvalidNodeAddress = errors.New("node address format not recognised")
	// ErrInvalidNodesOption ...
	ErrInvalidNodesOption = errors.New("nodes option must be one of provided, custom, public")
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("network must be one of mainnet, testnet, regtest")

	networks = map[string]*chaincfg.Params{
		"mainnet": &chaincfg.MainNetParams,
		"testnet": &chaincfg.TestNet3Params,
		"regtest": &chaincfg.RegressionNetParams,
	}
)

// NodesOption selects the set of full nodes to connect to.
type NodesOption int

const (
	NodesProvided NodesOption = iota
	NodesCustom
	NodesPublic
)

func (o NodesOption) String() string {
	switch o {
	case NodesProvided:
		return "provided"
	case NodesCustom:
		return "custom"
	case NodesPublic:
		return "public"
	default:
		return "unknown"
	}
}

// ParseNodesOption ...
func ParseNodesOption(s string) (NodesOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "provided":
		return NodesProvided, nil
	case "custom":
		return NodesCustom, nil
	case "public":
		return NodesPublic, nil
	default:
		return -1, ErrInvalidNodesOption
	}
}

// Node is a full node of the base chain. Optional fields are nil if not
// applicable: custom nodes have no operator, onion-only nodes have no clear
// net address.
type Node struct {
	HostName     *string
	OnionAddress *string
	Address      *string
	Port         int
	Operator     *string
}

// HasOnionAddress ...
func (n Node) HasOnionAddress() bool {
	return n.OnionAddress != nil
}

// HasClearNetAddress ...
func (n Node) HasClearNetAddress() bool {
	return n.HostName != nil || n.Address != nil
}

// HostNameOrAddress returns the host name if defined, otherwise the address.
// It's empty for onion-only nodes.
func (n Node) HostNameOrAddress() string {
	if n.HostName != nil {
		return *n.HostName
	}
	if n.Address != nil {
		return *n.Address
	}
	return ""
}

func (n Node) String() string {
	return fmt.Sprintf(
		"onionAddress=%s, hostName=%s, address=%s, port=%d, operator=%s",
		deref(n.OnionAddress), deref(n.HostName), deref(n.Address), n.Port,
		deref(n.Operator),
	)
}

// ParseFullAddress parses one of [ipv6]:port, [ipv6], bare ipv6, ipv4:port,
// host:port or x.onion:port. The port is optional and defaults to the given
// one. Host names must contain a dot to be told apart from bare ipv6.
func ParseFullAddress(fullAddress string, defaultPort int) (*Node, error) {
	fullAddress = strings.TrimSpace(fullAddress)
	if len(fullAddress) <= 0 {
		return nil, ErrInvalidNodeAddress
	}

	var host string
	port := defaultPort

	switch {
	case strings.HasPrefix(fullAddress, "["):
		end := strings.Index(fullAddress, "]")
		if end < 0 {
			return nil, ErrInvalidNodeAddress
		}
		host = fullAddress[1:end]
		if ip := net.ParseIP(host); ip == nil || ip.To4() != nil {
			return nil, ErrInvalidNodeAddress
		}
		if rest := fullAddress[end+1:]; len(rest) > 0 {
			if !strings.HasPrefix(rest, ":") {
				return nil, ErrInvalidNodeAddress
			}
			p, err := parsePort(rest[1:])
			if err != nil {
				return nil, err
			}
			port = p
		}
	case strings.Contains(fullAddress, ":") && !strings.Contains(fullAddress, "."):
		host = fullAddress
		if net.ParseIP(host) == nil {
			return nil, ErrInvalidNodeAddress
		}
	case strings.Contains(fullAddress, "."):
		parts := strings.Split(fullAddress, ":")
		if len(parts) > 2 {
			return nil, ErrInvalidNodeAddress
		}
		host = parts[0]
		if len(parts) == 2 {
			p, err := parsePort(parts[1])
			if err != nil {
				return nil, err
			}
			port = p
		}
	}

	if len(host) <= 0 {
		return nil, ErrInvalidNodeAddress
	}

	if strings.HasSuffix(host, ".onion") {
		return &Node{OnionAddress: &host, Port: port}, nil
	}
	return &Node{Address: &host, Port: port}, nil
}

// ToNodeList parses the given addresses, skipping empty ones.
func ToNodeList(addresses []string, defaultPort int) ([]Node, error) {
	nodes := make([]Node, 0, len(addresses))
	for _, addr := range addresses {
		if len(strings.TrimSpace(addr)) <= 0 {
			continue
		}
		node, err := ParseFullAddress(addr, defaultPort)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", addr, err)
		}
		nodes = append(nodes, *node)
	}
	return nodes, nil
}

// NetworkParams returns the chain params of the network with the given
// name, case insensitive.
func NetworkParams(name string) (*chaincfg.Params, error) {
	params, ok := networks[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnknownNetwork
	}
	return params, nil
}

// DefaultPort returns the p2p port of the given network.
func DefaultPort(params *chaincfg.Params) int {
	port, _ := strconv.Atoi(params.DefaultPort)
	return port
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return 0, ErrInvalidNodeAddress
	}
	return port, nil
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
