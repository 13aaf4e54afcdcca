package report

import (
	"sort"

	"regime-scanner/internal/model"
)

// Merge 拼接历史信号和本次新信号，按告警时间升序排列。
// 这里不再去重，去重在 memory 中完成。
func Merge(existing, fresh []model.Signal) []model.Signal {
	combined := make([]model.Signal, 0, len(existing)+len(fresh))
	combined = append(combined, existing...)
	combined = append(combined, fresh...)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].AlertTime.Before(combined[j].AlertTime)
	})
	return combined
}

// BuildDocument 生成报告内容，空列表的 master_section_index 为 -1
func BuildDocument(signals []model.Signal) Document {
	doc := Document{
		Sections:           make([]Record, 0, len(signals)),
		MasterSectionIndex: -1,
	}
	for _, s := range signals {
		doc.Sections = append(doc.Sections, FromSignal(s))
	}
	if len(doc.Sections) > 0 {
		doc.MasterSectionIndex = 0
	}
	return doc
}
