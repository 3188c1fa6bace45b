package handlers

import "mime/multipart"

type mockStorage struct {
	SaveImageFn    func(file multipart.File, filename string) (string, error)
	DeleteFn       func(publicPath string) error
	SaveImageCalls int
	DeleteCalls    []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteCalls: []string{},
	}
}

func (m *mockStorage) SaveImage(file multipart.File, filename string) (string, error) {
	m.SaveImageCalls++
	if m.SaveImageFn != nil {
		return m.SaveImageFn(file, filename)
	}
	return "/uploads/test_image.jpg", nil
}

func (m *mockStorage) Delete(publicPath string) error {
	m.DeleteCalls = append(m.DeleteCalls, publicPath)
	if m.DeleteFn != nil {
		return m.DeleteFn(publicPath)
	}
	return nil
}
