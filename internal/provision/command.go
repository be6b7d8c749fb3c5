package provision

import (
	"classroom-provisioner/internal/model"
)

// Command is one remote resource creation in a per-course plan. Commands are
// executed strictly in slice order: published items appear in the topic in
// call order.
type Command struct {
	Kind     model.ItemKind
	Title    string
	Material *model.Material   // set when Kind is MATERIAL
	Work     *model.CourseWork // set when Kind is ASSIGNMENT or ATTENDANCE
}

func topicCommand(title string) Command {
	return Command{Kind: model.ItemKindTopic, Title: title}
}

func materialCommand(m model.Material) Command {
	return Command{Kind: model.ItemKindMaterial, Title: m.Title, Material: &m}
}

func workCommand(kind model.ItemKind, w model.CourseWork) Command {
	return Command{Kind: kind, Title: w.Title, Work: &w}
}
