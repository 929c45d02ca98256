package rpc

import (
	"fmt"

	"github.com/golang/protobuf/proto"
)

// MethodDescriptor names a method and produces empty prototypes
// of its request and response messages.
type MethodDescriptor struct {
	Name        string
	NewRequest  func() proto.Message
	NewResponse func() proto.Message
	service     *ServiceDescriptor
}

// Service returns the descriptor the method was registered with.
func (m *MethodDescriptor) Service() *ServiceDescriptor { return m.service }

// FullName returns "service.method".
func (m *MethodDescriptor) FullName() string {
	if m.service == nil {
		return m.Name
	}
	return m.service.fullName + "." + m.Name
}

type ServiceDescriptor struct {
	fullName string
	methods  []*MethodDescriptor
	byName   map[string]*MethodDescriptor
}

// NewServiceDescriptor panics on duplicate or incomplete method descriptors.
func NewServiceDescriptor(fullName string, methods ...*MethodDescriptor) *ServiceDescriptor {
	d := &ServiceDescriptor{
		fullName: fullName,
		methods:  methods,
		byName:   make(map[string]*MethodDescriptor, len(methods)),
	}
	for _, m := range methods {
		if m.NewRequest == nil || m.NewResponse == nil {
			panic(fmt.Sprintf("method %s.%s: request and response prototypes are required", fullName, m.Name))
		}
		if _, dup := d.byName[m.Name]; dup {
			panic(fmt.Sprintf("duplicate method %s.%s", fullName, m.Name))
		}
		m.service = d
		d.byName[m.Name] = m
	}
	return d
}

func (d *ServiceDescriptor) FullName() string { return d.fullName }

func (d *ServiceDescriptor) Methods() []*MethodDescriptor { return d.methods }

func (d *ServiceDescriptor) FindMethodByName(name string) *MethodDescriptor {
	return d.byName[name]
}

// Done completes an asynchronous call.
// A nil message signals that no response is available.
type Done func(response proto.Message)

// Service is implemented by asynchronous services.
// CallMethod may invoke done before returning, later from another goroutine, or never.
type Service interface {
	Descriptor() *ServiceDescriptor
	CallMethod(method *MethodDescriptor, c *Controller, request proto.Message, done Done)
}

// BlockingService is implemented by synchronous services.
// A non-nil error fails the call with the error's text.
type BlockingService interface {
	Descriptor() *ServiceDescriptor
	CallBlockingMethod(method *MethodDescriptor, c *Controller, request proto.Message) (proto.Message, error)
}

type MethodFunc func(c *Controller, request proto.Message, done Done)

type BlockingMethodFunc func(c *Controller, request proto.Message) (proto.Message, error)

type funcService struct {
	desc  *ServiceDescriptor
	impls map[string]MethodFunc
}

// NewService builds a Service from one function per method.
// It panics if a method of desc has no implementation.
func NewService(desc *ServiceDescriptor, impls map[string]MethodFunc) Service {
	for _, m := range desc.Methods() {
		if impls[m.Name] == nil {
			panic(fmt.Sprintf("no implementation for method %s", m.FullName()))
		}
	}
	return &funcService{desc, impls}
}

func (s *funcService) Descriptor() *ServiceDescriptor { return s.desc }

func (s *funcService) CallMethod(method *MethodDescriptor, c *Controller, request proto.Message, done Done) {
	s.impls[method.Name](c, request, done)
}

type funcBlockingService struct {
	desc  *ServiceDescriptor
	impls map[string]BlockingMethodFunc
}

// NewBlockingService builds a BlockingService from one function per method.
// It panics if a method of desc has no implementation.
func NewBlockingService(desc *ServiceDescriptor, impls map[string]BlockingMethodFunc) BlockingService {
	for _, m := range desc.Methods() {
		if impls[m.Name] == nil {
			panic(fmt.Sprintf("no implementation for method %s", m.FullName()))
		}
	}
	return &funcBlockingService{desc, impls}
}

func (s *funcBlockingService) Descriptor() *ServiceDescriptor { return s.desc }

func (s *funcBlockingService) CallBlockingMethod(method *MethodDescriptor, c *Controller, request proto.Message) (proto.Message, error) {
	return s.impls[method.Name](c, request)
}
