package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AIxinyan/student-management-system/internal/repository"
)

// ErrExportNoStudents 无学生数据时不生成导出文件
var ErrExportNoStudents = errors.New("暂无学生数据，无法导出")

// ExportService 成绩单导出业务接口
type ExportService interface {
	// ExportStudents 导出全量学生成绩单，返回 xlsx 内容和建议文件名
	ExportStudents(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportStudents(ctx context.Context) (*bytes.Buffer, string, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("查询学生列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(students) == 0 {
		return nil, "", ErrExportNoStudents
	}

	// 与分析报告排名口径一致：分数降序，同分按学号升序
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].Score != students[j].Score {
			return students[i].Score > students[j].Score
		}
		return students[i].StudentID < students[j].StudentID
	})

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "学生成绩"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", err
	}

	headers := []string{"排名", "姓名", "学号", "班级", "成绩"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "E1", headerStyle)
	f.SetColWidth(sheet, "A", "E", 15)

	for i, st := range students {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), st.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), st.StudentID)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), st.Class)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), st.Score)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("学生成绩_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}
