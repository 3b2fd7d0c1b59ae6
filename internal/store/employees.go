package store

import (
	"slices"

	"go-erp-sync/internal/model"
)

func employeeID(e model.Employee) int { return e.ID }

func (s *Store) Employees() []model.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.employees))
}

func (s *Store) Employee(id int) (model.Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.employees, func(e model.Employee) bool { return e.ID == id })
}

func (s *Store) AddEmployee(e model.Employee) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = nextID(s.employees, employeeID)
	if e.Status == "" {
		e.Status = model.EmployeeActive
	}
	if e.HireDate.IsZero() {
		e.HireDate = s.now()
	}
	if err := s.commit(func() { s.employees = append(s.employees, e) }); err != nil {
		return model.Employee{}, err
	}
	return e, nil
}

func (s *Store) UpdateEmployee(id int, patch model.EmployeePatch) (model.Employee, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.employees, func(e model.Employee) bool { return e.ID == id })
	if i < 0 {
		return model.Employee{}, false, nil
	}
	updated := s.employees[i]
	updated.Apply(patch)
	if err := s.commit(func() { s.employees[i] = updated }); err != nil {
		return model.Employee{}, true, err
	}
	return updated, true, nil
}

func (s *Store) DeleteEmployee(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.employees, func(e model.Employee) bool { return e.ID == id })
	if i < 0 {
		return false, nil
	}
	return true, s.commit(func() { s.employees = slices.Delete(s.employees, i, i+1) })
}
