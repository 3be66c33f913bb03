package btcnodes

import "github.com/btcsuite/btcd/chaincfg"

type providedNode struct {
	hostName, onionAddress, address, operator string
}

var mainnetNodes = []providedNode{
	{"btcnode1.emzy.de", "emzybtc3ewh7zihpkdvuwlgxrhzcxy2p5fvjggp7ngjbxcytxvt4rjid.onion", "167.86.90.239", "@emzy"},
	{"btcnode2.emzy.de", "emzybtc25oddoa2prol2znpz2axnrg6k77xwgirmhv7igoiucddsxiad.onion", "62.171.129.32", "@emzy"},
	{"btcnode3.emzy.de", "emzybtc5bnpb2o6gh54oquiox54o4r7yn4a2wiiwzrjonlouaibm2zid.onion", "136.243.53.40", "@emzy"},
	{"btcnode4.emzy.de", "emzybtc454ewbviqnmgtgx3rgublsgkk23r4onbhidcv36wremue4kqd.onion", "135.181.215.237", "@emzy"},
	{"btc.vante.me", "bsqbtctulf2g4jtjsdfgl2ed7qs6zz5wqx27qnyiik7laockryvszqqd.onion", "94.23.21.80", "@miker"},
	{"btc2.vante.me", "bsqbtcparrfihlwolt4xgjbf4cgqckvrvsfyvy6vhiqrnh4w6ghixoid.onion", "94.23.205.110", "@miker"},
	{"btc1.sqrrm.net", "cwi3ekrwhig47dhhzfenr5hbvckj7fzaojygvazi2lucsenwbzwoyiqd.onion", "185.25.48.184", "@sqrrm"},
	{"btc2.sqrrm.net", "upvthy74hgvgbqi6w3zd2mlchoi5tvvw7b5hpmmhcddd5fnnwrixneid.onion", "81.171.22.143", "@sqrrm"},
	{"btc1.bisq.services", "devinbtctu7uctl7hly2juu3thbgeivfnvw3ckj3phy6nyvpnx66yeyd.onion", "172.105.21.216", "@devinbileck"},
	{"", "devinbtcyk643iruzfpaxw3on2jket7rbjmwygm42dmdyub3ietrbmid.onion", "", "@devinbileck"},
	{"", "devinbtcmwkuitvxl3tfi5of4zau46ymeannkjv6fpnylkgf3q5fa3id.onion", "", "@devinbileck"},
}

// ProvidedNodes returns the nodes run by known operators. There are none for
// networks other than mainnet.
func ProvidedNodes(params *chaincfg.Params) []Node {
	if params.Net != chaincfg.MainNetParams.Net {
		return []Node{}
	}

	port := DefaultPort(params)
	nodes := make([]Node, 0, len(mainnetNodes))
	for _, n := range mainnetNodes {
		nodes = append(nodes, Node{
			HostName:     optional(n.hostName),
			OnionAddress: optional(n.onionAddress),
			Address:      optional(n.address),
			Port:         port,
			Operator:     optional(n.operator),
		})
	}
	return nodes
}

// Nodes returns the nodes to connect to for the given option. Public means
// letting the p2p layer discover peers, so no node is returned.
func Nodes(
	option NodesOption, custom []string, params *chaincfg.Params,
) ([]Node, error) {
	switch option {
	case NodesProvided:
		return ProvidedNodes(params), nil
	case NodesCustom:
		return ToNodeList(custom, DefaultPort(params))
	case NodesPublic:
		return []Node{}, nil
	default:
		return nil, ErrInvalidNodesOption
	}
}

func optional(s string) *string {
	if len(s) <= 0 {
		return nil
	}
	return &s
}
