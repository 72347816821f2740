package layer

import "fmt"

// Handle 栈内层节点的不透明句柄
//
// 句柄带代数（generation），节点移除后旧句柄失效，
// 不会误指向复用同一槽位的新节点。
type Handle struct {
	index uint32
	gen   uint32
}

// NilHandle 空句柄
var NilHandle Handle

// IsNil 是否为空句柄
func (h Handle) IsNil() bool {
	return h.gen == 0
}

// String 返回 #index.gen 形式
func (h Handle) String() string {
	if h.IsNil() {
		return "#nil"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.gen)
}
