package router

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync/atomic"
)

// 目标选择策略，用于未指定路由键的 Select
const (
	PolicyRandom     = "random"
	PolicyRoundRobin = "round-robin"
)

// Policy 从 n 个目标中选出一个下标
type Policy interface {
	Pick(n int) int
}

type randomPolicy struct{}

func (randomPolicy) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return rand.IntN(n)
}

type roundRobinPolicy struct {
	next atomic.Uint64
}

func (p *roundRobinPolicy) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return int((p.next.Add(1) - 1) % uint64(n))
}

// parsePolicy 空白返回随机策略
func parsePolicy(name string) (Policy, string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyRandom:
		return randomPolicy{}, PolicyRandom, nil
	case PolicyRoundRobin, "roundrobin", "round_robin":
		return &roundRobinPolicy{}, PolicyRoundRobin, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
