package handler

import (
	"net/http"

	"taskhive/internal/middleware"
	"taskhive/internal/model"
	"taskhive/internal/repository"
	"taskhive/internal/response"
	"taskhive/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxTaskAttachments bounds the multipart upload on task creation.
const MaxTaskAttachments = 5

type TaskHandler struct {
	tasks    *repository.TaskRepository
	subtasks *repository.SubTaskRepository
	projects repository.ProjectRepositoryInterface
	members  repository.MemberRepositoryInterface
	uploader storage.Uploader
	cascade  *repository.CascadeRepository
}

func NewTaskHandler(tasks *repository.TaskRepository, subtasks *repository.SubTaskRepository, projects repository.ProjectRepositoryInterface, members repository.MemberRepositoryInterface, uploader storage.Uploader, cascade *repository.CascadeRepository) *TaskHandler {
	return &TaskHandler{tasks: tasks, subtasks: subtasks, projects: projects, members: members, uploader: uploader, cascade: cascade}
}

type CreateTaskRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	AssignedTo  string `form:"assignedTo" binding:"required,uuid"`
}

// Create makes a task in a project. The assignee must be a current
// member of that project; up to five attachments are uploaded and
// recorded at creation only.
func (h *TaskHandler) Create(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("All fields are required", bindingErrors(err)...))
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if project == nil {
		response.Abort(c, response.NotFound("Project not found"))
		return
	}

	assignee, err := h.members.FindByUserAndProject(c.Request.Context(), mustUUID(req.AssignedTo), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if assignee == nil {
		response.Abort(c, response.NotFound("No such member found in this project. Please check again"))
		return
	}

	var attachments []model.Attachment
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["files"]
		if len(files) > MaxTaskAttachments {
			response.Abort(c, response.BadRequest("Too many attachments"))
			return
		}
		for _, file := range files {
			url, err := h.uploader.Upload(file)
			if err != nil {
				response.Abort(c, response.NotImplemented("Could not upload attachment"))
				return
			}
			attachments = append(attachments, model.Attachment{
				URL:      url,
				MimeType: file.Header.Get("Content-Type"),
				Size:     file.Size,
			})
		}
	}

	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   projectID,
		AssignedTo:  assignee.UserID,
		AssignedBy:  userID,
		Status:      model.TaskStatusTodo,
		Attachments: attachments,
	}
	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, task, "Task Created Successfully")
}

// GetAllProjectTasks returns every task of a project together with its
// subtasks.
func (h *TaskHandler) GetAllProjectTasks(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Project Id invalid")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	tasks, err := h.tasks.FindByProject(c.Request.Context(), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if len(tasks) == 0 {
		response.Abort(c, response.NotFound("No tasks found for this project"))
		return
	}

	out := make([]gin.H, len(tasks))
	for i := range tasks {
		subtasks, err := h.subtasks.FindByTaskWithCreator(c.Request.Context(), tasks[i].ID)
		if err != nil {
			response.Abort(c, err)
			return
		}
		out[i] = gin.H{"task": tasks[i], "subtasks": subtasks}
	}

	response.OK(c, http.StatusOK, out, "Tasks fetched successfully")
}

// GetMyTasks lists the tasks assigned to the calling user across all
// projects.
func (h *TaskHandler) GetMyTasks(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	tasks, err := h.tasks.FindByAssignee(c.Request.Context(), userID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, tasks, "Tasks Fetched Successfully")
}

// GetByID fetches a task and refreshes its derived status from the
// live subtask set before responding. The recomputed value is written
// back, so a stale stored status never outlives a read.
func (h *TaskHandler) GetByID(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}
	taskID, apiErr := parseUUIDParam(c, "taskId", "Invalid Task Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	task, err := h.tasks.GetByIDInProject(c.Request.Context(), taskID, projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if task == nil {
		response.Abort(c, response.NotFound("No tasks found"))
		return
	}

	subtasks, err := h.subtasks.FindByTaskWithCreator(c.Request.Context(), task.ID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	if err := h.tasks.RefreshDerivedStatus(c.Request.Context(), task, subtasks); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"task": task, "subtasks": subtasks}, "Tasks fetched Successfully")
}

type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
}

// Update writes the provided fields. A direct status write is accepted
// here and survives until the next read-by-id re-derives it.
func (h *TaskHandler) Update(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}
	taskID, apiErr := parseUUIDParam(c, "taskId", "Invalid Task Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}
	if req.Title == "" && req.Description == "" && req.AssignedTo == "" && req.Status == "" {
		response.Abort(c, response.BadRequest("At least one field is required for updation"))
		return
	}

	task, err := h.tasks.GetByIDInProject(c.Request.Context(), taskID, projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if task == nil {
		response.Abort(c, response.NotFound("Task not found"))
		return
	}

	if req.AssignedTo != "" {
		assigneeID, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			response.Abort(c, response.BadRequest("Invalid assignee id"))
			return
		}
		member, err := h.members.FindByUserAndProject(c.Request.Context(), assigneeID, projectID)
		if err != nil {
			response.Abort(c, err)
			return
		}
		if member == nil {
			response.Abort(c, response.Forbidden("Requested user may not be part of this project"))
			return
		}
		userID, _ := middleware.CurrentUserID(c)
		task.AssignedTo = assigneeID
		task.AssignedBy = userID
	}
	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Status != "" {
		valid := false
		for _, s := range model.AvailableTaskStatuses {
			if s == req.Status {
				valid = true
				break
			}
		}
		if !valid {
			response.Abort(c, response.BadRequest("Invalid task status"))
			return
		}
		task.Status = req.Status
	}

	if err := h.tasks.Save(c.Request.Context(), task); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, task, "Task updated successfully")
}

// Delete removes a task and cascades to its subtasks and attachments.
func (h *TaskHandler) Delete(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}
	taskID, apiErr := parseUUIDParam(c, "taskId", "Invalid Task Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	task, err := h.tasks.GetByIDInProject(c.Request.Context(), taskID, projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if task == nil {
		response.Abort(c, response.NotFound("Task not found"))
		return
	}

	if err := h.cascade.DeleteTask(c.Request.Context(), projectID, taskID); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"title": task.Title}, "Task deleted successfully")
}

type CreateSubTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *TaskHandler) CreateSubTask(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}
	taskID, apiErr := parseUUIDParam(c, "taskId", "Invalid Task Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	var req CreateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Title is required", bindingErrors(err)...))
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	task, err := h.tasks.GetByIDInProject(c.Request.Context(), taskID, projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if task == nil {
		response.Abort(c, response.NotFound("Task not found"))
		return
	}

	subtask := &model.SubTask{
		TaskID:    task.ID,
		Title:     req.Title,
		CreatedBy: userID,
	}
	if err := h.subtasks.Create(c.Request.Context(), subtask); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, subtask, "Subtask created successfully")
}

type UpdateSubTaskRequest struct {
	Title string `json:"title"`
}

// UpdateSubTask toggles completion and optionally renames. A plain
// member may only touch subtasks they created; admins and project
// admins may touch any.
func (h *TaskHandler) UpdateSubTask(c *gin.Context) {
	subtaskID, apiErr := parseUUIDParam(c, "subtaskId", "Invalid Subtask Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	var req UpdateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Invalid input", bindingErrors(err)...))
		return
	}

	subtask, err := h.subtasks.GetByID(c.Request.Context(), subtaskID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if subtask == nil {
		response.Abort(c, response.NotFound("Subtask not found"))
		return
	}

	if err := h.checkSubTaskPermission(c, subtask); err != nil {
		response.Abort(c, err)
		return
	}

	if req.Title != "" {
		subtask.Title = req.Title
	}
	subtask.IsCompleted = !subtask.IsCompleted
	if err := h.subtasks.Save(c.Request.Context(), subtask); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, subtask, "Subtask updated successfully")
}

func (h *TaskHandler) DeleteSubTask(c *gin.Context) {
	subtaskID, apiErr := parseUUIDParam(c, "subtaskId", "Invalid Subtask Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	subtask, err := h.subtasks.GetByID(c.Request.Context(), subtaskID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if subtask == nil {
		response.Abort(c, response.NotFound("Subtask not found"))
		return
	}

	if err := h.checkSubTaskPermission(c, subtask); err != nil {
		response.Abort(c, err)
		return
	}

	if err := h.subtasks.Delete(c.Request.Context(), subtask.ID); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"title": subtask.Title}, "Subtask deleted successfully")
}

func (h *TaskHandler) checkSubTaskPermission(c *gin.Context, subtask *model.SubTask) error {
	if middleware.CallerRole(c) != model.RoleMember {
		return nil
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok || subtask.CreatedBy != userID {
		return response.Forbidden("You do not have permission to perform this task")
	}
	return nil
}
