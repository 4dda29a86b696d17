package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tasks-dev/tasks/shared/api"
	"github.com/tasks-dev/tasks/shared/domain"
)

const (
	opListBoards  = "list boards"
	opSaveBoard   = "save board"
	opCommitBoard = "close board"
)

var errNoBoardId = errors.New("board has no id")

// === Board Methods ===

func (c *APIClient) ListBoards(ctx context.Context, threadId domain.ThreadId) (api.BoardListResponse, error) {
	var response api.BoardListResponse
	query := url.Values{"thread": {strconv.FormatInt(threadId, 10)}}
	path := "/boards/?" + query.Encode()
	if err := c.do(ctx, opListBoards, http.MethodGet, path, nil, &response); err != nil {
		return api.BoardListResponse{}, err
	}
	return response, nil
}

// SaveBoard PUTs the full board and returns the server's version of it.
func (c *APIClient) SaveBoard(ctx context.Context, board domain.Board) (domain.Board, error) {
	if board.Id == nil {
		return domain.Board{}, fmt.Errorf("%s: %w", opSaveBoard, errNoBoardId)
	}
	var saved domain.Board
	path := fmt.Sprintf("/boards/%d/", *board.Id)
	if err := c.do(ctx, opSaveBoard, http.MethodPut, path, board, &saved); err != nil {
		return domain.Board{}, err
	}
	return saved, nil
}

// CommitBoard closes the board on the server. The response is the board
// with its carried-over state.
func (c *APIClient) CommitBoard(ctx context.Context, boardId domain.BoardId) (domain.Board, error) {
	var board domain.Board
	path := fmt.Sprintf("/boards/%d/commit/", boardId)
	if err := c.do(ctx, opCommitBoard, http.MethodPost, path, nil, &board); err != nil {
		return domain.Board{}, err
	}
	return board, nil
}
