package diagnosis

// Recommendations maps a completeness rate to advice bands. Every band also
// carries the standing periodic-audit item.
func Recommendations(completenessRate int) []string {
	recs := make([]string, 0, 3)
	switch {
	case completenessRate < 30:
		recs = append(recs,
			"文件体系严重不完整，建议从质量手册和核心程序文件开始系统性建设",
			"优先补充必需类别中缺失的文件",
		)
	case completenessRate < 50:
		recs = append(recs,
			"文件体系初具雏形，建议优先补齐必需类别的缺失文件",
			"对已有文件进行版本和受控状态检查",
		)
	case completenessRate < 80:
		recs = append(recs,
			"文件体系基本建立，建议补充剩余缺失文件并完善记录类文件",
		)
	default:
		recs = append(recs,
			"文件体系较为完整，建议保持现有文件的持续更新",
		)
	}
	recs = append(recs, "定期开展内部审核，确保文件体系持续符合标准要求")
	return recs
}
