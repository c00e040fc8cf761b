package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BuzzLyutic/todo-api/internal/model"
	"github.com/BuzzLyutic/todo-api/internal/repo"
	"github.com/BuzzLyutic/todo-api/internal/service"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	optionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	panelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

// consoleApp - однопользовательский режим: все в памяти,
// владелец не нужен, состояние живет до выхода
type consoleApp struct {
	service *service.TaskService
	in      *bufio.Scanner
}

func main() {
	app := &consoleApp{
		service: service.NewTaskService(repo.NewMemoryRepo()),
		in:      bufio.NewScanner(os.Stdin),
	}
	app.run()
}

func (a *consoleApp) run() {
	for {
		a.printMenu()
		choice, ok := a.prompt("Enter your choice (1-6)")
		if !ok {
			fmt.Println()
			return
		}

		switch choice {
		case "1":
			a.addTask()
		case "2":
			a.viewTasks()
		case "3":
			a.updateTask()
		case "4":
			a.deleteTask()
		case "5":
			a.markTask()
		case "6":
			fmt.Println(successStyle.Render("Goodbye!"))
			return
		default:
			fmt.Println(errorStyle.Render("Invalid choice. Please enter a number between 1-6."))
		}
	}
}

func (a *consoleApp) printMenu() {
	fmt.Println()
	fmt.Println(headerStyle.Render("=== Todo App Menu ==="))
	fmt.Println(optionStyle.Render("1.") + " Add Task")
	fmt.Println(optionStyle.Render("2.") + " View Tasks")
	fmt.Println(optionStyle.Render("3.") + " Update Task")
	fmt.Println(optionStyle.Render("4.") + " Delete Task")
	fmt.Println(optionStyle.Render("5.") + " Mark Complete/Incomplete")
	fmt.Println(optionStyle.Render("6.") + " Exit")
	fmt.Println(headerStyle.Render("====================="))
}

func (a *consoleApp) addTask() {
	fmt.Println(panelStyle.Render("Add New Task"))

	title, ok := a.prompt("Enter task title")
	if !ok {
		return
	}
	description, _ := a.prompt("Enter task description (optional)")

	task, err := a.service.Create(context.Background(), "", title, description)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Task %d added successfully!", task.ID)))
}

func (a *consoleApp) viewTasks() {
	fmt.Println(panelStyle.Render("All Tasks"))

	tasks, err := a.allTasks()
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return
	}
	if len(tasks) == 0 {
		fmt.Println(dimStyle.Render("No tasks found"))
		return
	}

	fmt.Printf("%-5s | %-30s | %-40s | %s\n", "ID", "Title", "Description", "Status")
	fmt.Println(strings.Repeat("-", 90))
	for _, t := range tasks {
		status := "Pending"
		if t.Completed {
			status = "Complete"
		}
		fmt.Printf("%-5d | %-30s | %-40s | %s\n", t.ID, clip(t.Title, 30), clip(t.Description, 40), status)
	}
}

func (a *consoleApp) updateTask() {
	fmt.Println(panelStyle.Render("Update Task"))

	id, ok := a.promptID()
	if !ok {
		return
	}

	current, err := a.service.Get(context.Background(), "", id)
	if err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Error: task %d not found", id)))
		return
	}
	fmt.Println(dimStyle.Render("Current title: " + current.Title))

	// Пустой ввод означает "оставить как есть"
	var patch model.TaskPatch
	if title, ok := a.prompt("Enter new title (leave empty to keep)"); ok && title != "" {
		patch.Title = &title
	}
	if description, ok := a.prompt("Enter new description (leave empty to keep)"); ok && description != "" {
		patch.Description = &description
	}

	if patch.IsEmpty() {
		fmt.Println(dimStyle.Render("Nothing to update"))
		return
	}

	if _, err := a.service.Update(context.Background(), "", id, patch); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Task %d updated successfully!", id)))
}

func (a *consoleApp) deleteTask() {
	fmt.Println(panelStyle.Render("Delete Task"))

	id, ok := a.promptID()
	if !ok {
		return
	}

	if err := a.service.Delete(context.Background(), "", id); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Error: task %d not found", id)))
		return
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Task %d deleted successfully!", id)))
}

func (a *consoleApp) markTask() {
	fmt.Println(panelStyle.Render("Mark Complete/Incomplete"))

	id, ok := a.promptID()
	if !ok {
		return
	}

	choice, ok := a.prompt("Mark as (c)omplete or (i)ncomplete? (c/i)")
	if !ok {
		return
	}

	var completed bool
	switch strings.ToLower(choice) {
	case "c":
		completed = true
	case "i":
		completed = false
	default:
		fmt.Println(errorStyle.Render("Error: Invalid choice. Please enter 'c' for complete or 'i' for incomplete"))
		return
	}

	if _, err := a.service.SetCompleted(context.Background(), "", id, &completed); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Error: task %d not found", id)))
		return
	}
	state := "incomplete"
	if completed {
		state = "complete"
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("Task %d marked %s!", id, state)))
}

// allTasks выбирает все страницы, чтобы не упереться в лимит выдачи
func (a *consoleApp) allTasks() ([]model.Task, error) {
	var all []model.Task
	offset := 0
	for {
		page, total, err := a.service.List(context.Background(), "", model.TaskFilter{
			Status: model.StatusAll,
			Limit:  100,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		offset += len(page)
		if offset >= total || len(page) == 0 {
			return all, nil
		}
	}
}

func (a *consoleApp) prompt(label string) (string, bool) {
	fmt.Print(label + ": ")
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *consoleApp) promptID() (int64, bool) {
	raw, ok := a.prompt("Enter task ID")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: Please enter a valid number"))
		return 0, false
	}
	return id, true
}

// clip обрезает по символам, чтобы не порвать UTF-8 посреди руны
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
