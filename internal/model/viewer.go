package model

// Viewer 是本次请求的观看者身份，可能是匿名的。
// 不用中间件往context里塞散装字段，而是把身份作为显式参数传进service层
type Viewer struct {
	ID            uint64
	Authenticated bool
}

// Anonymous 未登录的观看者，所有“是否已赞/已订阅/是否本人”字段一律为false
var Anonymous = Viewer{}

// Is 判断观看者是否就是某个用户本人，匿名时恒为false
func (v Viewer) Is(userID uint64) bool {
	return v.Authenticated && v.ID == userID
}
