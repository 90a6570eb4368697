// Package graphql defines the schema and wires its fields to the
// resolver operations. The shape of the schema is the public contract:
// User, Post, AuthData and PostsData types, a mutation root for the
// write operations and a query root for login and the feed reads.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/isdelr/social-feed-be/internal/models"
	"github.com/isdelr/social-feed-be/internal/services"
)

// Resolver bridges schema fields to the service layer.
type Resolver struct {
	users services.UserServiceProvider
	posts services.PostServiceProvider
}

// NewResolver creates a Resolver over the given services.
func NewResolver(users services.UserServiceProvider, posts services.PostServiceProvider) *Resolver {
	return &Resolver{users: users, posts: posts}
}

// Schema builds the executable schema.
func (r *Resolver) Schema() (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"_id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: userField(func(u models.PublicUser) interface{} { return u.ID }),
			},
			"name": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: userField(func(u models.PublicUser) interface{} { return u.Name }),
			},
			"email": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: userField(func(u models.PublicUser) interface{} { return u.Email }),
			},
			// Kept for schema compatibility. The stored hash is never
			// serializable; the field always resolves empty.
			"password": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "", nil
				},
			},
			"status": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: userField(func(u models.PublicUser) interface{} { return u.Status }),
			},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"_id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: postField(func(v models.PostView) interface{} { return v.ID }),
			},
			"title": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: postField(func(v models.PostView) interface{} { return v.Title }),
			},
			"content": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: postField(func(v models.PostView) interface{} { return v.Content }),
			},
			"imageUrl": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: postField(func(v models.PostView) interface{} { return v.ImageURL }),
			},
			"creator": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Resolve: postField(func(v models.PostView) interface{} { return v.Creator }),
			},
			"createdAt": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: postField(func(v models.PostView) interface{} { return isoTime(v.CreatedAt) }),
			},
			"updatedAt": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: postField(func(v models.PostView) interface{} { return isoTime(v.UpdatedAt) }),
			},
		},
	})

	// User.posts is added after both types exist; it depends on postType.
	userType.AddFieldConfig("posts", &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			u, ok := p.Source.(models.PublicUser)
			if !ok {
				return []models.PostView{}, nil
			}
			return r.posts.ByCreator(p.Context, u.ID)
		},
	})

	authDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthData",
		Fields: graphql.Fields{
			"userId": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.AuthData).UserID, nil
				},
			},
			"token": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.AuthData).Token, nil
				},
			},
		},
	})

	postsDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PostsData",
		Fields: graphql.Fields{
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.PostsPage).Posts, nil
				},
			},
			"totalItems": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(models.PostsPage).TotalItems, nil
				},
			},
		},
	})

	userInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	loginInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LoginInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PostInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			// Nullable: an absent imageUrl means "unchanged", which is
			// distinct from an explicitly cleared one.
			"imageUrl": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authDataType),
				Args: graphql.FieldConfigArgument{
					"loginInput": &graphql.ArgumentConfig{Type: loginInputType},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputMap(p, "loginInput")
					return r.users.Login(p.Context, str(in, "email"), str(in, "password"))
				},
			},
			"getPosts": &graphql.Field{
				Type: graphql.NewNonNull(postsDataType),
				Args: graphql.FieldConfigArgument{
					"currentPage": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, _ := p.Args["currentPage"].(int)
					return r.posts.Feed(p.Context, page)
				},
			},
			"getPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["postId"].(string)
					return r.posts.Get(p.Context, id)
				},
			},
			"user": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.users.Current(p.Context)
				},
			},
		},
	})

	rootMutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootMutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: userInputType},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputMap(p, "userInput")
					return r.users.Create(p.Context, str(in, "name"), str(in, "email"), str(in, "password"))
				},
			},
			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"postInput": &graphql.ArgumentConfig{Type: postInputType},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputMap(p, "postInput")
					imageURL := ""
					if s := optStr(in, "imageUrl"); s != nil {
						imageURL = *s
					}
					return r.posts.Create(p.Context, str(in, "title"), str(in, "content"), imageURL)
				},
			},
			"updatePost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"postId":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"postInput": &graphql.ArgumentConfig{Type: postInputType},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["postId"].(string)
					in := inputMap(p, "postInput")
					return r.posts.Update(p.Context, id, str(in, "title"), str(in, "content"), optStr(in, "imageUrl"))
				},
			},
			"deletePost": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"postId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["postId"].(string)
					return r.posts.Delete(p.Context, id)
				},
			},
			"updateStatus": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					status, _ := p.Args["status"].(string)
					return r.users.UpdateStatus(p.Context, status)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    rootQuery,
		Mutation: rootMutation,
	})
}
