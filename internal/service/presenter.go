package service

import (
	"github.com/noah-isme/sma-timetable/internal/domain/timetable"
	"github.com/noah-isme/sma-timetable/internal/dto"
)

func presentTeacher(t timetable.Teacher) dto.TeacherResponse {
	return dto.TeacherResponse{Name: t.Name, Classroom: t.Classroom}
}

func presentSubject(s timetable.Subject, withTeachers bool) dto.SubjectResponse {
	palette := s.Category.Color()
	out := dto.SubjectResponse{
		Name:        s.Name,
		Section:     s.Section,
		CreditHours: s.CreditHours,
		Category:    s.Category.String(),
		Color:       palette.Base,
		ActiveColor: palette.Active,
	}
	if withTeachers {
		for _, t := range s.Teachers {
			out.Teachers = append(out.Teachers, presentTeacher(t))
		}
	}
	return out
}

func presentSubjects(set timetable.ClassSet) []dto.SubjectResponse {
	subjects := set.Subjects()
	out := make([]dto.SubjectResponse, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, presentSubject(s, false))
	}
	return out
}

// presentClass splits a class into subject and teacher; both are nil for a gap.
func presentClass(c timetable.Class) (*dto.SubjectResponse, *dto.TeacherResponse) {
	if c.IsGap() {
		return nil, nil
	}
	subject := presentSubject(c.Subject, false)
	if !c.HasTeacher() {
		return &subject, nil
	}
	teacher := presentTeacher(c.Teacher)
	return &subject, &teacher
}

func presentSummary(s timetable.Student) dto.StudentSummary {
	return dto.StudentSummary{
		ID:          s.ID,
		Name:        s.Name,
		Subjects:    s.Classes.Len(),
		CreditHours: s.Classes.CreditHours(),
	}
}

func presentStudent(s timetable.Student) dto.StudentResponse {
	classes := make([]dto.SubjectResponse, 0, s.Classes.Len())
	for _, sub := range s.Classes.Subjects() {
		classes = append(classes, presentSubject(sub, true))
	}
	return dto.StudentResponse{StudentSummary: presentSummary(s), Classes: classes}
}
