package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/config"
	"github.com/AIxinyan/student-management-system/internal/dto"
	"github.com/AIxinyan/student-management-system/internal/model"
	"github.com/AIxinyan/student-management-system/internal/repository"
	"github.com/AIxinyan/student-management-system/pkg/redis"
)

// 成绩分布阈值
const (
	scoreExcellent = 90
	scoreGood      = 80
	scorePass      = 60
)

// 报告规则常量
const (
	topStudentsLimit  = 10
	excellentRatioBar = 0.3 // 优秀占比超过 30% 触发"增加挑战性内容"建议
	scoreGapBar       = 50  // 分差超过 50 触发"分层教学"建议
)

// ReportService 成绩分析报告业务接口
//
// 设计说明：
//   - 报告是对全量学生记录的纯聚合计算，无学生数据时返回 NoDataReport 占位
//   - Redis 可用时缓存序列化后的报告，学生数据任何写入都会使缓存失效
//   - 建议文案是固定规则表，按阈值依序追加
type ReportService interface {
	// Analysis 生成分析报告；返回 *dto.AnalysisReport、*dto.NoDataReport
	// 或命中缓存时的 json.RawMessage
	Analysis(ctx context.Context) (interface{}, error)
}

type reportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ReportService {
	return &reportService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

func (s *reportService) Analysis(ctx context.Context) (interface{}, error) {
	// 1. 尝试读缓存
	if s.rdb != nil {
		cached, err := s.rdb.GetReportCache(ctx)
		if err != nil {
			s.logger.Warn("读取报告缓存失败", zap.Error(err))
		} else if cached != "" {
			return json.RawMessage(cached), nil
		}
	}

	// 2. 全量计算
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, err
	}

	if len(students) == 0 {
		return &dto.NoDataReport{
			TotalStudents: 0,
			Message:       "暂无学生数据",
		}, nil
	}

	report := buildReport(students)

	// 3. 回填缓存（失败仅告警）
	if s.rdb != nil && s.cfg.Report.CacheTTL > 0 {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.rdb.SetReportCache(ctx, string(payload), s.cfg.Report.CacheTTL); err != nil {
				s.logger.Warn("写入报告缓存失败", zap.Error(err))
			}
		}
	}

	return report, nil
}

// buildReport 对学生记录做纯聚合计算，生成完整报告
func buildReport(students []model.Student) *dto.AnalysisReport {
	total := len(students)

	// ── 总体统计 ──
	var sum float64
	maxScore := students[0].Score
	minScore := students[0].Score
	for _, st := range students {
		sum += st.Score
		if st.Score > maxScore {
			maxScore = st.Score
		}
		if st.Score < minScore {
			minScore = st.Score
		}
	}
	avg := sum / float64(total)
	gap := maxScore - minScore

	// ── 成绩分布 ──
	var excellent, good, pass, fail int
	for _, st := range students {
		switch {
		case st.Score >= scoreExcellent:
			excellent++
		case st.Score >= scoreGood:
			good++
		case st.Score >= scorePass:
			pass++
		default:
			fail++
		}
	}

	// ── 班级分析（按班级名排序，保证输出稳定）──
	type classAgg struct {
		sum   float64
		count int
		max   float64
		min   float64
	}
	classStat := make(map[string]*classAgg)
	for _, st := range students {
		agg, ok := classStat[st.Class]
		if !ok {
			agg = &classAgg{max: st.Score, min: st.Score}
			classStat[st.Class] = agg
		}
		agg.sum += st.Score
		agg.count++
		if st.Score > agg.max {
			agg.max = st.Score
		}
		if st.Score < agg.min {
			agg.min = st.Score
		}
	}

	classNames := make([]string, 0, len(classStat))
	for name := range classStat {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)

	classAnalysis := make([]dto.ClassAnalysis, 0, len(classNames))
	for _, name := range classNames {
		agg := classStat[name]
		classAnalysis = append(classAnalysis, dto.ClassAnalysis{
			Class:        name,
			StudentCount: agg.count,
			AvgScore:     formatScore(agg.sum / float64(agg.count)),
			MaxScore:     agg.max,
			MinScore:     agg.min,
		})
	}

	// ── 排名：分数降序，同分按学号升序，取前 10 ──
	ranked := make([]model.Student, len(students))
	copy(ranked, students)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].StudentID < ranked[j].StudentID
	})

	limit := topStudentsLimit
	if len(ranked) < limit {
		limit = len(ranked)
	}
	topStudents := make([]dto.RankedStudent, 0, limit)
	for i := 0; i < limit; i++ {
		topStudents = append(topStudents, dto.RankedStudent{
			Rank:      i + 1,
			Name:      ranked[i].Name,
			StudentID: ranked[i].StudentID,
			Class:     ranked[i].Class,
			Score:     ranked[i].Score,
		})
	}

	// ── 建议文案（固定规则表，按序追加）──
	var suggestions []string

	switch {
	case avg >= 85:
		suggestions = append(suggestions, "整体表现优秀！继续保持当前的学习状态。")
	case avg >= 70:
		suggestions = append(suggestions, "整体表现良好，但仍有提升空间，建议加强薄弱环节的辅导。")
	case avg >= 60:
		suggestions = append(suggestions, "整体成绩及格，需要重点关注成绩较差的学生，提供针对性辅导。")
	default:
		suggestions = append(suggestions, "整体成绩偏低，建议全面分析教学方法，加强基础知识巩固。")
	}

	if fail > 0 {
		suggestions = append(suggestions, fmt.Sprintf("有 %d 名学生成绩不及格，建议安排补习或一对一辅导。", fail))
	}

	if float64(excellent) > float64(total)*excellentRatioBar {
		suggestions = append(suggestions, "优秀学生比例较高，可以适当增加挑战性内容。")
	}

	if gap > scoreGapBar {
		suggestions = append(suggestions, "学生成绩差距较大，建议实施分层教学，因材施教。")
	}

	return &dto.AnalysisReport{
		Summary: dto.ReportSummary{
			TotalStudents: total,
			AvgScore:      formatScore(avg),
			MaxScore:      maxScore,
			MinScore:      minScore,
			ScoreGap:      gap,
		},
		Distribution: dto.ReportDistribution{
			Excellent:     excellent,
			Good:          good,
			Pass:          pass,
			Fail:          fail,
			ExcellentRate: formatRate(float64(excellent) / float64(total)),
			PassRate:      formatRate(float64(total-fail) / float64(total)),
		},
		ClassAnalysis: classAnalysis,
		TopStudents:   topStudents,
		Suggestions:   suggestions,
	}
}

// formatScore 均分保留两位小数（与原系统 toFixed(2) 一致）
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatRate 比例格式化为两位小数百分比字符串，如 "25.00%"
func formatRate(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
