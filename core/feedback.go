package core

// Feedback 是一条用户对产品的喜欢/不喜欢信号。
// 协同打分只消费 Liked 为 true 的行。
type Feedback struct {
	UserID    string
	ProductID string
	Liked     bool
}

// LikedSet 取某用户的已喜欢产品集合。
func LikedSet(rows []Feedback, userID string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range rows {
		if r.UserID == userID && r.Liked {
			out[r.ProductID] = struct{}{}
		}
	}
	return out
}

// LikedByUser 把反馈行按用户分组为喜欢集合，只保留 Liked 行。
func LikedByUser(rows []Feedback) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for _, r := range rows {
		if !r.Liked {
			continue
		}
		set, ok := out[r.UserID]
		if !ok {
			set = make(map[string]struct{})
			out[r.UserID] = set
		}
		set[r.ProductID] = struct{}{}
	}
	return out
}
