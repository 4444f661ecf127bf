package models

import (
	"fmt"
	"io"
)

// FacultyRecord 教师信息
// Name 和 Title 必填, 其余字段缺失时为空字符串
type FacultyRecord struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Office  string `json:"office,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// Valid 姓名和职称都不为空时记录才有效
func (r FacultyRecord) Valid() bool {
	return r.Name != "" && r.Title != ""
}

// Print 按固定格式输出一条记录
func (r FacultyRecord) Print(w io.Writer) {
	fmt.Fprintf(w, "\nName: %s\n", r.Name)
	fmt.Fprintf(w, "Title: %s\n", r.Title)
	fmt.Fprintf(w, "Office: %s\n", r.Office)
	fmt.Fprintf(w, "Phone: %s\n", r.Phone)
	fmt.Fprintf(w, "Email: %s\n", r.Email)
	fmt.Fprintf(w, "Website: %s\n", r.Website)
}
