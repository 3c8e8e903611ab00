package isolation

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
)

// rfc1918Ranges are the private destinations build containers must not reach.
// Builds still need external egress for npm, nix and cargo downloads, so the
// network is not internal; only private ranges are dropped.
var rfc1918Ranges = []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}

// iptablesChain holds the egress rules for the build network.
const iptablesChain = "HALYARD_BUILD_ISOLATION"

// ensureNetwork creates the isolated build network if it does not exist and
// installs the RFC1918 drop rules for its subnet.
func (m *Manager) ensureNetwork(ctx context.Context) error {
	inspected, err := m.cli.NetworkInspect(ctx, m.cfg.NetworkName, network.InspectOptions{})
	switch {
	case err == nil:
		for _, ipam := range inspected.IPAM.Config {
			if ipam.Subnet != "" {
				if err := m.ensureEgressRules(ctx, ipam.Subnet); err != nil {
					return fmt.Errorf("enforce egress rules for %s: %w", ipam.Subnet, err)
				}
			}
		}
		return nil
	case client.IsErrNotFound(err):
		// Fall through and create it.
	default:
		return fmt.Errorf("inspect build network: %w", err)
	}

	subnet, err := m.findAvailableSubnet(ctx)
	if err != nil {
		return err
	}
	gateway := strings.Replace(subnet, ".0/24", ".1", 1)

	_, err = m.cli.NetworkCreate(ctx, m.cfg.NetworkName, network.CreateOptions{
		Driver: "bridge",
		IPAM: &network.IPAM{
			Driver: "default",
			Config: []network.IPAMConfig{{Subnet: subnet, Gateway: gateway}},
		},
	})
	if err != nil {
		return fmt.Errorf("create build network: %w", err)
	}

	if err := m.ensureEgressRules(ctx, subnet); err != nil {
		return fmt.Errorf("enforce egress rules for %s: %w", subnet, err)
	}
	m.logger.Info("created isolated build network", "network", m.cfg.NetworkName, "subnet", subnet)
	return nil
}

// findAvailableSubnet picks a /24 in 10.89.0.0/16 that no existing network
// uses or overlaps.
func (m *Manager) findAvailableSubnet(ctx context.Context) (string, error) {
	networks, err := m.cli.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("list networks: %w", err)
	}

	used := make(map[string]struct{})
	for _, n := range networks {
		for _, ipam := range n.IPAM.Config {
			if ipam.Subnet != "" {
				used[ipam.Subnet] = struct{}{}
			}
		}
	}

	for octet := 0; octet <= 255; octet++ {
		candidate := fmt.Sprintf("10.89.%d.0/24", octet)
		if _, taken := used[candidate]; taken {
			continue
		}
		overlaps := false
		for existing := range used {
			if subnetsOverlap(candidate, existing) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free subnet in 10.89.0.0/16 for build network")
}

// subnetsOverlap reports whether two CIDR blocks share any addresses.
func subnetsOverlap(a, b string) bool {
	netA, maskA, okA := parseCIDR(a)
	netB, maskB, okB := parseCIDR(b)
	if !okA || !okB {
		return false
	}
	common := maskA
	if maskB < maskA {
		common = maskB
	}
	return netA&common == netB&common
}

func parseCIDR(s string) (ip uint32, mask uint32, ok bool) {
	var o1, o2, o3, o4, bits uint32
	if _, err := fmt.Sscanf(s, "%d.%d.%d.%d/%d", &o1, &o2, &o3, &o4, &bits); err != nil {
		return 0, 0, false
	}
	if o1 > 255 || o2 > 255 || o3 > 255 || o4 > 255 || bits > 32 {
		return 0, 0, false
	}
	ip = o1<<24 | o2<<16 | o3<<8 | o4
	if bits == 0 {
		return ip, 0, true
	}
	mask = ^uint32(0) << (32 - bits)
	return ip & mask, mask, true
}

// ensureEgressRules installs iptables rules that drop traffic from the build
// subnet to private ranges. A build that runs without these rules can reach
// internal hosts, so any install failure is an error; Run then either fails
// the build or falls back to an explicitly degraded one.
func (m *Manager) ensureEgressRules(ctx context.Context, subnet string) error {
	if err := m.runIptables(ctx, "-n", "-L", iptablesChain); err != nil {
		if err := m.runIptables(ctx, "-N", iptablesChain); err != nil {
			return fmt.Errorf("create iptables chain %s: %w", iptablesChain, err)
		}
	}

	for _, dest := range rfc1918Ranges {
		if dest == "10.0.0.0/8" {
			// The build subnet lives inside 10/8; allow it to talk to
			// itself before dropping the rest of the range.
			if err := m.appendRule(ctx, subnet, subnet, "ACCEPT"); err != nil {
				return err
			}
		}
		if err := m.appendRule(ctx, subnet, dest, "DROP"); err != nil {
			return err
		}
	}

	if err := m.runIptables(ctx, "-C", "FORWARD", "-s", subnet, "-j", iptablesChain); err != nil {
		if err := m.runIptables(ctx, "-I", "FORWARD", "1", "-s", subnet, "-j", iptablesChain); err != nil {
			return fmt.Errorf("install FORWARD jump to %s: %w", iptablesChain, err)
		}
	}
	return nil
}

func (m *Manager) appendRule(ctx context.Context, source, dest, target string) error {
	if err := m.runIptables(ctx, "-C", iptablesChain, "-s", source, "-d", dest, "-j", target); err == nil {
		return nil
	}
	if err := m.runIptables(ctx, "-A", iptablesChain, "-s", source, "-d", dest, "-j", target); err != nil {
		return fmt.Errorf("append %s rule %s -> %s: %w", target, source, dest, err)
	}
	return nil
}

func (m *Manager) runIptables(ctx context.Context, args ...string) error {
	out, err := exec.CommandContext(ctx, "iptables", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("iptables %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
