package router

import (
	"sort"

	"theme-catalog/internal/transport/http/ez"
)

// APIModule 在 /api/v1 下挂载路由；pub 无需登录，authed 已挂 AuthJWT
type APIModule interface {
	MountAPI(pub, authed ez.EZ)
}

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// MountAll 按优先级挂载
func MountAll(pub, authed ez.EZ, mods ...APIModule) {
	mods = append([]APIModule(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(pub, authed)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
