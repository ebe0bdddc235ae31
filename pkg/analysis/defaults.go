package analysis

import "github.com/stratakg/strata/pkg/common"

// DefaultAnalysis is the static four-layer structure substituted when the
// model cannot produce one. It covers the typical shape of a quality-managed
// manufacturing enterprise; names stay generic so downstream matching does
// not anchor on them.
func DefaultAnalysis(industry string, standard string) *common.LayeredAnalysis {
	if standard == "" {
		standard = "ISO9001"
	}
	a := &common.LayeredAnalysis{
		StandardLayer: common.StandardLayer{
			Standards: []common.StandardInfo{
				{Name: standard, Code: standard, Description: "质量管理体系要求"},
			},
		},
		EnterpriseLayer: common.EnterpriseLayer{
			Industry:    industry,
			Departments: []string{"管理层", "质量部", "生产部", "采购部", "销售部", "人力资源部"},
			Products:    []string{},
		},
		ProcessLayer: common.ProcessLayer{
			CoreProcesses: []common.ProcessInfo{
				{Name: "产品实现过程", Description: "从订单到交付的价值创造过程", Owner: "生产部"},
				{Name: "销售过程", Description: "客户需求识别与合同评审", Owner: "销售部"},
			},
			SupportProcesses: []common.ProcessInfo{
				{Name: "采购过程", Description: "供方评价与采购控制", Owner: "采购部"},
				{Name: "人力资源管理", Description: "培训与能力管理", Owner: "人力资源部"},
				{Name: "文件控制", Description: "受控文件的编制、审批与发放", Owner: "质量部"},
			},
		},
		DocumentLayer: common.DocumentLayer{
			Documents: []common.DocumentInfo{
				{Name: "质量手册", Category: "体系文件"},
				{Name: "质量方针", Category: "体系文件"},
				{Name: "质量目标", Category: "体系文件"},
				{Name: "文件控制程序", Category: "程序文件"},
				{Name: "记录控制程序", Category: "程序文件"},
				{Name: "内部审核程序", Category: "程序文件"},
				{Name: "不合格品控制程序", Category: "程序文件"},
				{Name: "纠正措施程序", Category: "程序文件"},
			},
		},
	}
	a.Normalize()
	return a
}
