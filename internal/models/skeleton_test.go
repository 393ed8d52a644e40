package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicSkeletonRender(t *testing.T) {
	s := NewAtomicSkeleton()
	assert.True(t, s.IsAtomic())
	assert.Contains(t, s.Render(), "full")
}

func TestLogicSkeletonRender(t *testing.T) {
	s := &Skeleton{
		Imports: []string{`import { Repository } from "typeorm";`},
		Classes: []ClassSkeleton{
			{Name: "UsersService", Methods: []string{"findAll(): User[];", "create(dto: CreateUserDto): User;"}},
		},
	}
	out := s.Render()
	assert.Contains(t, out, `import { Repository } from "typeorm";`)
	assert.Contains(t, out, "class UsersService {")
	assert.Contains(t, out, "findAll(): User[];")
}

func TestNilSkeletonRender(t *testing.T) {
	var s *Skeleton
	assert.Equal(t, "(no skeleton)", s.Render())
}
