package dialog

import "math/rand/v2"

// followupCount is how many suggested questions one reply carries.
const followupCount = 3

var matchingFollowups = []string{
	"想深入了解其中某位教授吗？",
	"需要对比两位教授的研究方向吗？",
	"要看看这些教授的代表成果吗？",
	"需要联系方式方面的建议吗？",
	"想换个研究领域再找找吗？",
}

var detailFollowups = []string{
	"想了解这位教授的在研项目吗？",
	"需要看看他的代表成果吗？",
	"要和其他教授对比一下吗？",
	"需要联系这位教授的建议吗？",
}

var comparisonFollowups = []string{
	"想深入了解其中一位吗？",
	"需要看看两位教授的成果清单吗？",
	"要我按您的需求给出倾向性建议吗？",
}

var achievementFollowups = []string{
	"想了解某项成果的负责人吗？",
	"需要按领域再筛选一次成果吗？",
	"想联系成果背后的教授吗？",
	"要看看相关的在研项目吗？",
}

var adviceFollowups = []string{
	"需要我按这个方向推荐教授吗？",
	"想了解联系教授的礼仪和话术吗？",
	"要看看相关领域的研究成果吗？",
	"还有其他学术规划问题吗？",
}

var guidanceFollowups = []string{
	"您关注哪个研究领域？",
	"您希望哪种合作方式？",
	"您是学生还是企业方？",
}

var generalFollowups = []string{
	"想找某个方向的教授吗？",
	"需要了解平台能做什么吗？",
	"有具体的合作需求了吗？",
	"要看看热门研究领域吗？",
}

// pickFollowups returns up to followupCount questions from pool in
// shuffled order, leaving pool untouched.
func pickFollowups(pool []string) []string {
	if len(pool) == 0 {
		return nil
	}
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > followupCount {
		shuffled = shuffled[:followupCount]
	}
	return shuffled
}
